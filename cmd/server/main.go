package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/api"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/auth"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/catalog"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/config"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/database"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/enrich"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/logger"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/mail"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/market"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Connect to the database
	db, err := database.NewDatabase(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated")

	// Upstream market-data client and the catalog cache it feeds
	marketClient := market.NewClient(&cfg.Market, log.Named("market"))
	cache := catalog.NewCache(marketClient, cfg.Catalog.LogoConcurrency, log.Named("catalog"))

	refresher, err := catalog.NewRefresher(cache,
		time.Duration(cfg.Catalog.RefreshHours)*time.Hour, log.Named("catalog"))
	if err != nil {
		log.Fatal("Failed to set up catalog refresher", zap.Error(err))
	}
	refresher.Start()
	defer refresher.Stop()

	// Warm the catalog off the request path; the first request wins either way.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := cache.Refresh(ctx); err != nil {
			log.Warn("Startup catalog warm-up failed", zap.Error(err))
		}
	}()

	tokens := auth.NewTokenService(cfg.Auth.SecretKey,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	engine := enrich.NewEngine(marketClient, cache, log.Named("enrich"))
	mailer := mail.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, log.Named("mail"))

	server := api.NewServer(db, tokens, engine, cache, marketClient, mailer, log.Named("api"))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	go func() {
		log.Info("Starting web server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server has been shut down")
}
