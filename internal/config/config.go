package config

import (
	"os"
	"strconv"
	"time"

	"housepulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Market   MarketConfig
	Server   ServerConfig
	Export   ExportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MarketConfig holds upstream market-data service settings
type MarketConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	PollInterval time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// ExportConfig holds spreadsheet export settings
type ExportConfig struct {
	SheetPrefix string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	marketConfig, err := loadMarketConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load market data configuration")
	}
	config.Market = *marketConfig

	config.Server = loadServerConfig()
	config.Export = loadExportConfig()

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:             url,
		MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}, nil
}

func loadMarketConfig() (*MarketConfig, error) {
	baseURL := os.Getenv("MARKET_API_URL")
	if baseURL == "" {
		return nil, errors.ConfigInvalid("MARKET_API_URL is required")
	}

	return &MarketConfig{
		BaseURL:      baseURL,
		APIKey:       os.Getenv("MARKET_API_KEY"), // optional: public endpoints need none
		Timeout:      envDuration("MARKET_API_TIMEOUT", 15*time.Second),
		MaxRetries:   envInt("MARKET_API_MAX_RETRIES", 3),
		PollInterval: envDuration("MARKET_POLL_INTERVAL", time.Hour),
	}, nil
}

func loadServerConfig() ServerConfig {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	return ServerConfig{Port: port}
}

func loadExportConfig() ExportConfig {
	prefix := os.Getenv("EXPORT_SHEET_PREFIX")
	if prefix == "" {
		prefix = "housepulse"
	}
	return ExportConfig{SheetPrefix: prefix}
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}
	return fallback
}
