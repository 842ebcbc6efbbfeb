package market

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// CatalogEntry is the static listing metadata for one exchange symbol.
type CatalogEntry struct {
	Symbol      string  `json:"ticker"`
	CompanyName string  `json:"company_name"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

// FetchEquityList downloads the full exchange equity listing and returns one
// entry per listed symbol. Logo URLs are not resolved here; see LogoURL.
//
// The listing is a CSV with a header row; the SYMBOL and NAME OF COMPANY
// columns are the only ones this service reads.
func (c *Client) FetchEquityList(ctx context.Context) ([]CatalogEntry, error) {
	req := c.client.R()

	resp, err := c.doRequest(ctx, "GET", c.catalogURL, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch equity list: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(resp.Body()))
	reader.FieldsPerRecord = -1 // the listing occasionally carries ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse equity list: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("equity list is empty")
	}

	symbolCol, nameCol := -1, -1
	for i, col := range records[0] {
		switch strings.ToUpper(strings.TrimSpace(col)) {
		case "SYMBOL":
			symbolCol = i
		case "NAME OF COMPANY":
			nameCol = i
		}
	}
	if symbolCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("equity list is missing expected columns")
	}

	entries := make([]CatalogEntry, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) <= symbolCol || len(row) <= nameCol {
			continue
		}
		symbol := strings.TrimSpace(row[symbolCol])
		if symbol == "" {
			continue
		}
		entries = append(entries, CatalogEntry{
			Symbol:      symbol,
			CompanyName: strings.TrimSpace(row[nameCol]),
		})
	}

	return entries, nil
}
