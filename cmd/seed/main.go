package main

import (
	"context"   // Store calls
	"flag"      // Command line flags
	"math/rand" // Random balances
	"time"      // Seed source

	"digital_wallet/internal/config" // Configuration
	"digital_wallet/internal/db"     // Database bootstrap and seeding
	"digital_wallet/internal/store"  // Ledger store
	"digital_wallet/internal/utils"  // Logging

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for seeding demo wallets
func main() {
	count := flag.Int("users", 10, "number of demo users to create")
	flag.Parse()

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if err := utils.SetupLogger(cfg.IsProd, cfg.LogLevel); err != nil {
		logrus.Fatalf("invalid LOG_LEVEL: %v", err)
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	created, err := db.Seed(context.Background(), store.New(gdb), *count, rng)
	if err != nil {
		logrus.Fatalf("seeding failed after %d users: %v", created, err)
	}
	logrus.WithField("created", created).Info("Seeding completed")
}
