package config

import (
	"fmt"  // DSN formatting
	"time" // Durations

	"github.com/joho/godotenv"             // For loading .env files
	"github.com/kelseyhightower/envconfig" // Environment to struct decoding
)

// Config holds the application configuration
type Config struct {
	AppPort        string        `envconfig:"APP_PORT" default:"8080"`             // Application port
	DBDriver       string        `envconfig:"DB_DRIVER" default:"mysql"`           // mysql, postgres or sqlite
	DBUser         string        `envconfig:"DB_USER"`                             // Database user
	DBPassword     string        `envconfig:"DB_PASSWORD"`                         // Database password
	DBHost         string        `envconfig:"DB_HOST" default:"127.0.0.1"`         // Database host
	DBPort         string        `envconfig:"DB_PORT"`                             // Database port, driver default when empty
	DBName         string        `envconfig:"DB_NAME" default:"wallet"`            // Database name
	DBPath         string        `envconfig:"DB_PATH" default:"wallet.db"`         // SQLite file
	DBTimeout      time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`             // Per-request store deadline
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`          // JWT secret key
	JWTTTL         time.Duration `envconfig:"JWT_TTL" default:"24h"`               // Access token lifetime
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"` // Redis server address
	RedisPass      string        `envconfig:"REDIS_PASS"`                          // Redis password
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`                // Redis database number
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"60s"`             // History cache TTL
	IsProd         bool          `envconfig:"IS_PROD" default:"false"`             // Is production environment
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`            // logrus level
	TrustedProxies []string      `envconfig:"TRUSTED_PROXIES" default:"127.0.0.1"` // Comma separated proxy list
}

// LoadConfig loads configuration from a .env file, if present, and the environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch cfg.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("load config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return &cfg, nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	case "sqlite":
		return c.DBPath
	default:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&loc=UTC"
	}
}
