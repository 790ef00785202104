package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jwhitmore/portfolio-backend/config"
	"github.com/jwhitmore/portfolio-backend/handlers"
	"github.com/jwhitmore/portfolio-backend/internal/store/postgres"
	"github.com/jwhitmore/portfolio-backend/logger"
	"github.com/jwhitmore/portfolio-backend/middleware"
	"github.com/jwhitmore/portfolio-backend/router"
	"github.com/jwhitmore/portfolio-backend/services"
)

const version = "1.0.0"

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to parse database config: %v", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MinIdleConns)

	if cfg.IsProduction() {
		// Managed Postgres requires TLS in production; development runs
		// over plain TCP.
		poolConfig.ConnConfig.TLSConfig = &tls.Config{
			ServerName: cfg.Database.Host(),
			MinVersion: tls.VersionTLS12,
		}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	messageStore := postgres.NewMessageStore(pool)
	emailService := services.NewEmailService(&cfg.Email)

	deps := router.Dependencies{
		Config:         cfg,
		ContactHandler: handlers.NewContactHandler(messageStore, emailService),
		AdminHandler:   handlers.NewAdminHandler(messageStore),
		HealthHandler:  handlers.NewHealthHandler(messageStore, version),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.SetupRouter(deps),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Stop accepting requests, let in-flight handlers finish, then drain
	// the pool so no connection is severed mid-query.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	pool.Close()
	log.Info("Server stopped")
}
