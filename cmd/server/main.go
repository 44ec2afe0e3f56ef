package main

import (
	"context"   // Shutdown deadline
	"errors"    // Error inspection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"digital_wallet/internal/api"     // HTTP handlers and router
	"digital_wallet/internal/auth"    // Registration and tokens
	"digital_wallet/internal/config"  // Configuration
	"digital_wallet/internal/db"      // Database bootstrap
	"digital_wallet/internal/metrics" // Prometheus metrics
	"digital_wallet/internal/store"   // Ledger store
	"digital_wallet/internal/utils"   // Tokens, cache, logging
	"digital_wallet/internal/wallet"  // Wallet operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if err := utils.SetupLogger(cfg.IsProd, cfg.LogLevel); err != nil {
		logrus.Fatalf("invalid LOG_LEVEL: %v", err)
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	cache := utils.NewCache(redisClient, cfg.CacheTTL)

	// Redis only backs the history cache and logout revocation, so the API can start without it
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, history cache and token revocation degraded")
	}
	cancelPing()

	collector := metrics.NewCollector("wallet")
	ledger := store.New(gdb)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		Auth:           auth.NewService(ledger, tokens, cache),
		Wallet:         wallet.NewService(ledger, cache, collector),
		Tokens:         tokens,
		Revocations:    cache,
		Observer:       collector,
		MetricsHandler: collector.Handler(),
		HealthChecks: map[string]api.HealthCheck{
			"database": ledger.Ping,
			"cache":    cache.Ping,
		},
		RequestTimeout: cfg.DBTimeout,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown error")
	}
	if err := redisClient.Close(); err != nil {
		logrus.WithError(err).Warn("Redis close error")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrus.Info("Server stopped")
}
