package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/market"
	"go.uber.org/zap"
)

// Fetcher is the slice of the market client the cache needs.
type Fetcher interface {
	FetchEquityList(ctx context.Context) ([]market.CatalogEntry, error)
	LogoURL(ctx context.Context, symbol string) *string
}

// Cache holds the full symbol catalog in memory.
//
// The catalog is replaced wholesale on every refresh: readers get a reference
// to an immutable snapshot map and never observe a partially built one. Once
// populated, the cache never goes back to empty; a failed refresh keeps the
// stale snapshot.
type Cache struct {
	fetcher         Fetcher
	logger          *zap.Logger
	logoConcurrency int

	mu            sync.RWMutex
	entries       map[string]market.CatalogEntry
	lastRefreshed time.Time

	// refreshMu serializes rebuilds. The scheduled path skips when it is
	// held; a cold reader waits on it instead of being served nothing.
	refreshMu sync.Mutex
}

// NewCache creates an empty catalog cache.
func NewCache(fetcher Fetcher, logoConcurrency int, logger *zap.Logger) *Cache {
	if logoConcurrency < 1 {
		logoConcurrency = 1
	}
	return &Cache{
		fetcher:         fetcher,
		logger:          logger,
		logoConcurrency: logoConcurrency,
	}
}

// Get returns the current catalog snapshot keyed by symbol.
//
// A warm cache answers immediately. An empty cache populates synchronously;
// the first caller pays the refresh latency instead of being served nothing.
// The returned map must be treated as read-only.
func (c *Cache) Get(ctx context.Context) map[string]market.CatalogEntry {
	c.mu.RLock()
	entries := c.entries
	c.mu.RUnlock()

	if entries != nil {
		return entries
	}

	c.ensurePopulated(ctx)

	c.mu.RLock()
	entries = c.entries
	c.mu.RUnlock()
	if entries == nil {
		return map[string]market.CatalogEntry{}
	}
	return entries
}

// LastRefreshed reports when the current snapshot was built. The zero time
// means the cache has never been populated.
func (c *Cache) LastRefreshed() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefreshed
}

// Refresh rebuilds the whole catalog and atomically swaps it in.
//
// Refreshes are not reentrant: while one is in flight, further calls return
// immediately without starting a second fetch. On failure the previous
// snapshot is retained and the next scheduled tick retries.
func (c *Cache) Refresh(ctx context.Context) error {
	if !c.refreshMu.TryLock() {
		c.logger.Debug("Catalog refresh already in flight, skipping")
		return nil
	}
	defer c.refreshMu.Unlock()

	return c.rebuild(ctx)
}

// ensurePopulated is the cold-read path: run the populate, or wait for the
// one already in flight. Either way the caller sees a populated cache
// afterwards, not an empty map that fills moments later.
func (c *Cache) ensurePopulated(ctx context.Context) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// The refresh we waited on may already have filled the cache.
	c.mu.RLock()
	warm := c.entries != nil
	c.mu.RUnlock()
	if warm {
		return
	}

	if err := c.rebuild(ctx); err != nil {
		c.logger.Error("Initial catalog populate failed", zap.Error(err))
	}
}

// rebuild does the actual fetch and swap. Callers must hold refreshMu.
func (c *Cache) rebuild(ctx context.Context) error {
	started := time.Now()
	list, err := c.fetcher.FetchEquityList(ctx)
	if err != nil {
		return err
	}

	c.resolveLogos(ctx, list)

	snapshot := make(map[string]market.CatalogEntry, len(list))
	for _, entry := range list {
		snapshot[entry.Symbol] = entry
	}

	c.mu.Lock()
	c.entries = snapshot
	c.lastRefreshed = time.Now()
	c.mu.Unlock()

	c.logger.Info("Catalog refreshed",
		zap.Int("symbols", len(snapshot)),
		zap.Duration("took", time.Since(started)),
	)
	return nil
}

// resolveLogos fills in LogoURL for every entry with a bounded concurrent
// fan-out. A failed probe leaves the logo absent and never fails the batch.
func (c *Cache) resolveLogos(ctx context.Context, list []market.CatalogEntry) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.logoConcurrency)

	for i := range list {
		wg.Add(1)
		sem <- struct{}{}
		go func(entry *market.CatalogEntry) {
			defer wg.Done()
			defer func() { <-sem }()
			entry.LogoURL = c.fetcher.LogoURL(ctx, entry.Symbol)
		}(&list[i])
	}

	wg.Wait()
}
