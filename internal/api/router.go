package api

import (
	"context"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/auth"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/enrich"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/market"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IndexSource serves the headline market index snapshots.
type IndexSource interface {
	MainIndices(ctx context.Context) (map[string]market.IndexSnapshot, error)
}

// RegistrationMailer sends the post-signup mail, fire-and-forget.
type RegistrationMailer interface {
	SendRegistration(email, username string)
}

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	db      *gorm.DB
	logger  *zap.Logger
	tokens  *auth.TokenService
	engine  *enrich.Engine
	catalog enrich.CatalogSource
	indices IndexSource
	mailer  RegistrationMailer
}

// NewServer wires the handler dependencies together.
func NewServer(db *gorm.DB, tokens *auth.TokenService, engine *enrich.Engine,
	catalog enrich.CatalogSource, indices IndexSource, mailer RegistrationMailer,
	logger *zap.Logger) *Server {
	return &Server{
		db:      db,
		logger:  logger,
		tokens:  tokens,
		engine:  engine,
		catalog: catalog,
		indices: indices,
		mailer:  mailer,
	}
}

// Router builds the gin engine with all routes and middleware registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS())
	r.Use(s.requestLogger())

	r.POST("/login", s.login)
	r.POST("/signup", s.signup)
	r.GET("/signup/:username", s.getUser)

	protected := r.Group("/")
	protected.Use(s.authRequired())
	{
		protected.GET("/stocks/all", s.getAllStocks)
		protected.GET("/stocks", s.getStocksByTicker)
		protected.GET("/stocks/tickers", s.getStockTickers)
		protected.POST("/stocks", s.createStock)
		protected.PUT("/stocks/:trade_id", s.updateStock)
		protected.DELETE("/stocks/:trade_id", s.deleteStock)

		protected.GET("/market_movers/main_indices", s.getMainIndices)
	}

	return r
}
