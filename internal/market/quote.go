package market

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Quote is a best-effort point-in-time price snapshot for one ticker.
// All fields are optional; a nil Quote means the upstream had no data at all.
type Quote struct {
	CurrentPrice  float64
	PriceChange   float64
	PercentChange *float64
}

// chartResponse mirrors the Yahoo Finance v8 chart payload, reduced to the
// meta fields this service reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// quoteSymbol maps a ticker and its exchange onto the upstream symbol suffix.
func quoteSymbol(ticker, exchange string) string {
	switch strings.ToUpper(exchange) {
	case "NSE":
		return ticker + ".NS"
	case "BSE":
		return ticker + ".BO"
	default:
		return ticker
	}
}

// LatestPrice fetches a live price snapshot for one ticker.
//
// A (nil, nil) return means the upstream simply has no current or previous
// price for the symbol; that is a normal condition (delisted, pre-market),
// not a fault. Transport failures are returned as errors and the caller is
// expected to degrade to an absent quote.
func (c *Client) LatestPrice(ctx context.Context, ticker, exchange string) (*Quote, error) {
	symbol := quoteSymbol(ticker, exchange)
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.quoteBase, symbol)

	var chart chartResponse
	req := c.client.R().SetResult(&chart)

	resp, err := c.doRequest(ctx, "GET", url, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}

	result := resp.Result().(*chartResponse)
	if len(result.Chart.Result) == 0 {
		return nil, nil
	}

	meta := result.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil || meta.ChartPreviousClose == nil {
		c.logger.Debug("Quote incomplete, treating as absent", zap.String("symbol", symbol))
		return nil, nil
	}

	current := *meta.RegularMarketPrice
	previous := *meta.ChartPreviousClose

	quote := &Quote{
		CurrentPrice: current,
		PriceChange:  current - previous,
	}
	// Never divide by a zero or missing previous close.
	if previous != 0 {
		pct := (current - previous) / previous * 100
		quote.PercentChange = &pct
	}

	return quote, nil
}
