package enrich

import (
	"context"
	"fmt"
	"sync"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/market"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/models"
	"go.uber.org/zap"
)

// PriceFetcher resolves one ticker to a live quote. Absent data is (nil, nil).
type PriceFetcher interface {
	LatestPrice(ctx context.Context, ticker, exchange string) (*market.Quote, error)
}

// CatalogSource serves the current symbol catalog snapshot.
type CatalogSource interface {
	Get(ctx context.Context) map[string]market.CatalogEntry
}

// EnrichedTrade is a stored trade entry overlaid with live price data and
// catalog metadata. Overlay fields are optional and omitted when the source
// had nothing for the ticker.
type EnrichedTrade struct {
	models.TradeEntry
	CurrentPrice     *string `json:"current_price,omitempty"`
	PriceChange      *string `json:"price_change,omitempty"`
	PercentageChange *string `json:"percentage_change,omitempty"`
	CompanyName      *string `json:"company_name,omitempty"`
	LogoURL          *string `json:"logo_url,omitempty"`
}

// Engine merges persisted trade rows, live quotes and the catalog cache into
// per-trade views.
type Engine struct {
	prices  PriceFetcher
	catalog CatalogSource
	logger  *zap.Logger
}

// NewEngine creates a new aggregation engine.
func NewEngine(prices PriceFetcher, catalog CatalogSource, logger *zap.Logger) *Engine {
	return &Engine{
		prices:  prices,
		catalog: catalog,
		logger:  logger,
	}
}

// Enrich builds one view per input trade, preserving input order.
//
// Quote lookups run concurrently, one per row; results land in a
// position-indexed slice so completion order never changes output order. A
// row whose lookup fails or comes back empty is still included, with the
// price fields absent; the policy is the same on every call site.
func (e *Engine) Enrich(ctx context.Context, trades []models.TradeEntry) []EnrichedTrade {
	quotes := make([]*market.Quote, len(trades))

	var wg sync.WaitGroup
	for i, trade := range trades {
		wg.Add(1)
		go func(i int, trade models.TradeEntry) {
			defer wg.Done()
			quote, err := e.prices.LatestPrice(ctx, trade.StockTicker, trade.TradeExchange)
			if err != nil {
				e.logger.Warn("Live price lookup failed, serving trade without quote",
					zap.String("ticker", trade.StockTicker),
					zap.Error(err),
				)
				return
			}
			quotes[i] = quote
		}(i, trade)
	}
	wg.Wait()

	// One catalog snapshot for the whole batch: every row in the response
	// sees the same refresh cycle.
	catalog := e.catalog.Get(ctx)

	views := make([]EnrichedTrade, len(trades))
	for i, trade := range trades {
		view := EnrichedTrade{TradeEntry: trade}

		if quote := quotes[i]; quote != nil {
			view.CurrentPrice = strPtr(fmt.Sprintf("₹%.2f", quote.CurrentPrice))
			view.PriceChange = strPtr(signedAmount(quote.PriceChange))
			if quote.PercentChange != nil {
				view.PercentageChange = strPtr(signedAmount(*quote.PercentChange) + "%")
			}
		}

		if entry, ok := catalog[trade.StockTicker]; ok {
			view.CompanyName = strPtr(entry.CompanyName)
			view.LogoURL = entry.LogoURL
		}

		views[i] = view
	}

	return views
}

// signedAmount formats with an explicit plus sign on gains.
func signedAmount(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func strPtr(s string) *string { return &s }
