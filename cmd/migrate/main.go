package main

import (
	"digital_wallet/internal/config" // Configuration
	"digital_wallet/internal/db"     // Database bootstrap
	"digital_wallet/internal/utils"  // Logging

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
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
}
