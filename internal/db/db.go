package db

import (
	"fmt"  // Error wrapping
	"time" // Pool durations

	"digital_wallet/internal/config" // Application configuration

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM logger
)

// Dialector picks the GORM dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		return mysql.Open(cfg.DSN()), nil
	case "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// GormConfig is the GORM configuration shared by the server, tools and tests
func GormConfig(isProd bool) *gorm.Config {
	level := logger.Warn
	if isProd {
		level = logger.Error
	}
	return &gorm.Config{
		TranslateError: true,                                         // Map driver errors to gorm.ErrDuplicatedKey etc.
		Logger:         logger.Default.LogMode(level),                // Only slow queries and errors
		NowFunc:        func() time.Time { return time.Now().UTC() }, // Store timestamps in UTC
	}
}

// Open connects to the configured database and sizes the connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dialector, GormConfig(cfg.IsProd))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1) // SQLite allows a single writer
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return gdb, nil
}
