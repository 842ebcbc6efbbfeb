package market

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// IndexSnapshot is a point-in-time view of one named market index.
type IndexSnapshot struct {
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// requiredIndices are the exchange indices surfaced on the market movers view.
var requiredIndices = []string{"NIFTY 50", "NIFTY BANK"}

// allIndicesResponse mirrors the exchange all-indices payload.
type allIndicesResponse struct {
	Data []struct {
		Index         string  `json:"index"`
		Last          float64 `json:"last"`
		Variation     float64 `json:"variation"`
		PercentChange float64 `json:"percentChange"`
	} `json:"data"`
}

// MainIndices fetches the headline index snapshots: the exchange indices plus
// SENSEX via the quote source. The whole payload depends on the exchange
// call, so its failure is an error; the SENSEX leg is best-effort.
func (c *Client) MainIndices(ctx context.Context) (map[string]IndexSnapshot, error) {
	var all allIndicesResponse
	req := c.client.R().SetResult(&all)

	resp, err := c.doRequest(ctx, "GET", c.indicesURL, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market indices: %w", err)
	}

	result := resp.Result().(*allIndicesResponse)

	indices := make(map[string]IndexSnapshot, len(requiredIndices)+1)
	for _, row := range result.Data {
		for _, want := range requiredIndices {
			if row.Index == want {
				indices[row.Index] = IndexSnapshot{
					Value:         row.Last,
					Change:        row.Variation,
					ChangePercent: row.PercentChange,
				}
			}
		}
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("market indices payload had none of the required indices")
	}

	// SENSEX comes from the quote source; the view is still useful without it.
	if quote, err := c.LatestPrice(ctx, "^BSESN", ""); err != nil {
		c.logger.Warn("Failed to fetch SENSEX snapshot", zap.Error(err))
	} else if quote != nil {
		snap := IndexSnapshot{
			Value:  quote.CurrentPrice,
			Change: quote.PriceChange,
		}
		if quote.PercentChange != nil {
			snap.ChangePercent = *quote.PercentChange
		}
		indices["SENSEX"] = snap
	}

	return indices, nil
}
