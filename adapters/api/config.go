package api

import (
	"time"

	"housepulse/domain/core"
	"housepulse/internal/config"
)

// SourceConfig holds the connection settings for the upstream market-data
// service.
type SourceConfig struct {
	// Source identifies this consumer to the upstream, echoed on every
	// request so fetches can be attributed in the upstream's access logs.
	Source     core.SourceID `json:"source_id"`
	BaseURL    string        `json:"base_url"`
	APIKey     string        `json:"api_key,omitempty"`
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
}

// FromAppConfig builds a SourceConfig from the application configuration
func FromAppConfig(cfg config.MarketConfig) SourceConfig {
	return SourceConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
	}
}

// withDefaults backfills zero values so a hand-built config still behaves
func (c SourceConfig) withDefaults() SourceConfig {
	if c.Source == "" {
		c.Source = core.SourceID(core.NewID())
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return c
}
