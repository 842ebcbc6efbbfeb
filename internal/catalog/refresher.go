package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher owns the scheduled background refresh of a Cache. Its lifecycle
// is tied to process startup and shutdown by the caller.
type Refresher struct {
	cron   *cron.Cron
	cache  *Cache
	logger *zap.Logger
}

// NewRefresher creates a refresher that rebuilds the catalog every interval.
func NewRefresher(cache *Cache, interval time.Duration, logger *zap.Logger) (*Refresher, error) {
	r := &Refresher{
		cron:   cron.New(),
		cache:  cache,
		logger: logger,
	}

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := r.cron.AddFunc(spec, r.tick); err != nil {
		return nil, fmt.Errorf("register catalog refresh: %w", err)
	}
	return r, nil
}

// Start starts the refresh schedule.
func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Info("Catalog refresher started")
}

// Stop stops the schedule and waits for a running tick to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Catalog refresher stopped")
}

func (r *Refresher) tick() {
	// A full refresh enumerates thousands of symbols plus one logo probe
	// each; give it generous but bounded time.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := r.cache.Refresh(ctx); err != nil {
		r.logger.Error("Scheduled catalog refresh failed, keeping stale data", zap.Error(err))
	}
}
