package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/auth"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/database"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/enrich"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/market"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakePrices serves quotes from a fixed table; missing tickers are absent.
type fakePrices struct {
	quotes map[string]*market.Quote
	err    error
}

func (f *fakePrices) LatestPrice(ctx context.Context, ticker, exchange string) (*market.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes[ticker], nil
}

type fakeCatalog map[string]market.CatalogEntry

func (f fakeCatalog) Get(ctx context.Context) map[string]market.CatalogEntry { return f }

type fakeIndices struct {
	indices map[string]market.IndexSnapshot
	err     error
}

func (f *fakeIndices) MainIndices(ctx context.Context) (map[string]market.IndexSnapshot, error) {
	return f.indices, f.err
}

// fakeMailer records sends on a channel so tests can wait for the
// fire-and-forget goroutine.
type fakeMailer struct {
	sent chan string
}

func (f *fakeMailer) SendRegistration(email, username string) {
	f.sent <- email
}

// testEnv bundles everything a handler test needs.
type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	tokens  *auth.TokenService
	prices  *fakePrices
	catalog fakeCatalog
	indices *fakeIndices
	mailer  *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	env := &testEnv{
		db:      db,
		tokens:  auth.NewTokenService("test-secret", 30*time.Minute),
		prices:  &fakePrices{quotes: map[string]*market.Quote{}},
		catalog: fakeCatalog{},
		indices: &fakeIndices{indices: map[string]market.IndexSnapshot{}},
		mailer:  &fakeMailer{sent: make(chan string, 4)},
	}

	logger := zap.NewNop()
	engine := enrich.NewEngine(env.prices, env.catalog, logger)
	server := NewServer(db, env.tokens, engine, env.catalog, env.indices, env.mailer, logger)
	env.router = server.Router()
	return env
}

// signupUser creates an account directly through the API.
func (env *testEnv) signupUser(t *testing.T, username, email, password string) {
	t.Helper()
	resp := env.doJSON(t, "POST", "/signup", "", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, 201, resp.Code, resp.Body.String())
}

// loginUser returns a bearer token for the given credentials.
func (env *testEnv) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	require.Equal(t, 200, resp.Code, resp.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// doJSON performs a JSON request, optionally with a bearer token.
func (env *testEnv) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	return resp
}

var errUpstreamDown = errors.New("upstream down")

func waitForMail(t *testing.T, mailer *fakeMailer) string {
	t.Helper()
	select {
	case email := <-mailer.sent:
		return email
	case <-time.After(2 * time.Second):
		t.Fatal("registration mail was never sent")
		return ""
	}
}
