package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/auth"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockPayload(ticker, date string) map[string]any {
	return map[string]any{
		"stock_ticker":      ticker,
		"trade_exchange":    "NSE",
		"trade_entry_date":  date,
		"quantity":          10,
		"price_per_stock":   1500.0,
		"trade_total_price": 15000.0,
		"target_price":      1800.0,
		"trade_strategy":    "swing",
	}
}

func setupUser(t *testing.T, env *testEnv) string {
	t.Helper()
	env.signupUser(t, "alice", "alice@example.com", "s3cret")
	return env.loginUser(t, "alice@example.com", "s3cret")
}

func TestCreateStock(t *testing.T) {
	t.Run("DuplicateRejected", func(t *testing.T) {
		env := newTestEnv(t)
		token := setupUser(t, env)

		resp := env.doJSON(t, "POST", "/stocks", token, newStockPayload("infy", "2024-01-10"))
		assert.Equal(t, 201, resp.Code)
		// Ticker is stored uppercased.
		assert.Contains(t, resp.Body.String(), "INFY")

		resp = env.doJSON(t, "POST", "/stocks", token, newStockPayload("INFY", "2024-01-10"))
		assert.Equal(t, 400, resp.Code)
		assert.Contains(t, resp.Body.String(), "already exists")

		// Same ticker on a different date is a distinct entry.
		resp = env.doJSON(t, "POST", "/stocks", token, newStockPayload("INFY", "2024-01-11"))
		assert.Equal(t, 201, resp.Code)
	})

	t.Run("BadDate", func(t *testing.T) {
		env := newTestEnv(t)
		token := setupUser(t, env)

		resp := env.doJSON(t, "POST", "/stocks", token, newStockPayload("INFY", "10-01-2024"))
		assert.Equal(t, 400, resp.Code)
		assert.Contains(t, resp.Body.String(), "YYYY-MM-DD")
	})
}

func TestGetAllStocks(t *testing.T) {
	env := newTestEnv(t)
	token := setupUser(t, env)

	require.Equal(t, 201, env.doJSON(t, "POST", "/stocks", token, newStockPayload("TCS", "2024-01-09")).Code)
	require.Equal(t, 201, env.doJSON(t, "POST", "/stocks", token, newStockPayload("INFY", "2024-01-10")).Code)

	pct := 50.0 / 1500.0 * 100
	env.prices.quotes["INFY"] = &market.Quote{CurrentPrice: 1550, PriceChange: 50, PercentChange: &pct}
	// TCS deliberately has no quote.
	logo := "https://logo.example.com/infy.com"
	env.catalog["INFY"] = market.CatalogEntry{Symbol: "INFY", CompanyName: "Infosys Limited", LogoURL: &logo}

	resp := env.doJSON(t, "GET", "/stocks/all", token, nil)
	require.Equal(t, 200, resp.Code, resp.Body.String())

	var views []struct {
		StockTicker  string  `json:"stock_ticker"`
		CurrentPrice *string `json:"current_price"`
		CompanyName  *string `json:"company_name"`
		LogoURL      *string `json:"logo_url"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &views))
	require.Len(t, views, 2)

	// Input order is creation order; the quoteless row is still present.
	assert.Equal(t, "TCS", views[0].StockTicker)
	assert.Nil(t, views[0].CurrentPrice)
	assert.Nil(t, views[0].CompanyName)

	assert.Equal(t, "INFY", views[1].StockTicker)
	require.NotNil(t, views[1].CurrentPrice)
	assert.Equal(t, "₹1550.00", *views[1].CurrentPrice)
	require.NotNil(t, views[1].CompanyName)
	assert.Equal(t, "Infosys Limited", *views[1].CompanyName)
	assert.Equal(t, logo, *views[1].LogoURL)
}

func TestGetStocksByTicker(t *testing.T) {
	env := newTestEnv(t)
	token := setupUser(t, env)
	require.Equal(t, 201, env.doJSON(t, "POST", "/stocks", token, newStockPayload("INFY", "2024-01-10")).Code)

	t.Run("Found", func(t *testing.T) {
		resp := env.doJSON(t, "GET", "/stocks?ticker=infy", token, nil)
		assert.Equal(t, 200, resp.Code)
		assert.Contains(t, resp.Body.String(), "INFY")
	})

	t.Run("NotFound", func(t *testing.T) {
		resp := env.doJSON(t, "GET", "/stocks?ticker=GONE", token, nil)
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("MissingParam", func(t *testing.T) {
		resp := env.doJSON(t, "GET", "/stocks", token, nil)
		assert.Equal(t, 400, resp.Code)
	})
}

func TestUpdateStock(t *testing.T) {
	env := newTestEnv(t)
	token := setupUser(t, env)
	require.Equal(t, 201, env.doJSON(t, "POST", "/stocks", token, newStockPayload("INFY", "2024-01-10")).Code)

	t.Run("Success", func(t *testing.T) {
		payload := newStockPayload("INFY", "2024-01-10")
		payload["target_price"] = 2000.0
		resp := env.doJSON(t, "PUT", "/stocks/1", token, payload)
		assert.Equal(t, 202, resp.Code)

		get := env.doJSON(t, "GET", "/stocks?ticker=INFY", token, nil)
		assert.Contains(t, get.Body.String(), "2000")
	})

	t.Run("UnknownID", func(t *testing.T) {
		resp := env.doJSON(t, "PUT", "/stocks/999", token, newStockPayload("INFY", "2024-01-10"))
		assert.Equal(t, 404, resp.Code)
	})

	t.Run("BadDate", func(t *testing.T) {
		resp := env.doJSON(t, "PUT", "/stocks/1", token, newStockPayload("INFY", "10-01-2024"))
		assert.Equal(t, 400, resp.Code)
		assert.Contains(t, resp.Body.String(), "YYYY-MM-DD")
	})

	t.Run("DuplicatePair", func(t *testing.T) {
		require.Equal(t, 201, env.doJSON(t, "POST", "/stocks", token, newStockPayload("TCS", "2024-01-12")).Code)

		// Rewriting entry 1 onto TCS/2024-01-12 would collide with entry 2.
		resp := env.doJSON(t, "PUT", "/stocks/1", token, newStockPayload("tcs", "2024-01-12"))
		assert.Equal(t, 400, resp.Code)
		assert.Contains(t, resp.Body.String(), "already exists")

		// Updating an entry onto its own (ticker, date) pair is fine.
		resp = env.doJSON(t, "PUT", "/stocks/2", token, newStockPayload("TCS", "2024-01-12"))
		assert.Equal(t, 202, resp.Code)
	})
}

func TestDeleteStock(t *testing.T) {
	env := newTestEnv(t)
	token := setupUser(t, env)
	require.Equal(t, 201, env.doJSON(t, "POST", "/stocks", token, newStockPayload("INFY", "2024-01-10")).Code)

	resp := env.doJSON(t, "DELETE", "/stocks/1", token, nil)
	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), "successfully deleted 1")

	resp = env.doJSON(t, "DELETE", "/stocks/1", token, nil)
	assert.Equal(t, 404, resp.Code)
}

func TestGetStockTickers(t *testing.T) {
	t.Run("Warm", func(t *testing.T) {
		env := newTestEnv(t)
		token := setupUser(t, env)
		env.catalog["INFY"] = market.CatalogEntry{Symbol: "INFY", CompanyName: "Infosys Limited"}

		resp := env.doJSON(t, "GET", "/stocks/tickers", token, nil)
		assert.Equal(t, 200, resp.Code)
		assert.Contains(t, resp.Body.String(), "Infosys Limited")
	})

	t.Run("CatalogUnavailable", func(t *testing.T) {
		env := newTestEnv(t)
		token := setupUser(t, env)

		resp := env.doJSON(t, "GET", "/stocks/tickers", token, nil)
		assert.Equal(t, 500, resp.Code)
		assert.Contains(t, resp.Body.String(), "failed to fetch stock info")
	})
}

func TestMainIndices(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		token := setupUser(t, env)
		env.indices.indices = map[string]market.IndexSnapshot{
			"NIFTY 50": {Value: 22000.5, Change: -30.2, ChangePercent: -0.14},
		}

		resp := env.doJSON(t, "GET", "/market_movers/main_indices", token, nil)
		assert.Equal(t, 200, resp.Code)
		assert.Contains(t, resp.Body.String(), "NIFTY 50")
	})

	t.Run("UpstreamDown", func(t *testing.T) {
		env := newTestEnv(t)
		token := setupUser(t, env)
		env.indices.err = errUpstreamDown

		resp := env.doJSON(t, "GET", "/market_movers/main_indices", token, nil)
		assert.Equal(t, 500, resp.Code)
		// Upstream details never leak into the response.
		assert.NotContains(t, resp.Body.String(), "upstream down")
		assert.Contains(t, resp.Body.String(), "failed to fetch market indices")
	})
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)
	setupUser(t, env)

	const wantBody = `{"message":"could not validate credentials"}`

	cases := []struct {
		name  string
		token string
	}{
		{"MissingToken", ""},
		{"GarbageToken", "garbage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.doJSON(t, "GET", "/stocks/all", tc.token, nil)
			assert.Equal(t, 401, resp.Code)
			assert.Equal(t, "Bearer", resp.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, wantBody, resp.Body.String())
		})
	}

	t.Run("ExpiredToken", func(t *testing.T) {
		expired := auth.NewTokenService("test-secret", -time.Minute)
		token, err := expired.Issue("alice@example.com")
		require.NoError(t, err)

		resp := env.doJSON(t, "GET", "/stocks/all", token, nil)
		assert.Equal(t, 401, resp.Code)
		assert.JSONEq(t, wantBody, resp.Body.String())
	})

	t.Run("UnknownSubject", func(t *testing.T) {
		// A valid token whose user no longer exists is indistinguishable
		// from a bad token.
		token, err := env.tokens.Issue("deleted@example.com")
		require.NoError(t, err)

		resp := env.doJSON(t, "GET", "/stocks/all", token, nil)
		assert.Equal(t, 401, resp.Code)
		assert.JSONEq(t, wantBody, resp.Body.String())
	})
}
