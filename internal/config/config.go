package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the chart hydration service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Dataset location. DATA_URL may be relative to DATA_BASE_URL.
	DataURL     string `env:"DATA_URL,default=data/datos.json"`
	DataBaseURL string `env:"DATA_BASE_URL"`

	// Page scanned for chart placeholders
	PagePath  string `env:"PAGE_PATH,default=./public/index.html"`
	ChartAttr string `env:"CHART_ATTR,default=data-visualizacion"`

	// Fetch behaviour; zero disables the timeout and retries
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=0s"`
	FetchRetries int           `env:"FETCH_RETRIES,default=0"`

	// Where rendered charts go
	DeploymentMode string `env:"DEPLOYMENT_MODE,default=local"`
	LocalOutputDir string `env:"LOCAL_OUTPUT_DIR,default=./charts"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch c.DeploymentMode {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE=gcs")
		}
	default:
		return fmt.Errorf("unsupported DEPLOYMENT_MODE %q", c.DeploymentMode)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("FETCH_TIMEOUT must not be negative, got %s", c.FetchTimeout)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("FETCH_RETRIES must not be negative, got %d", c.FetchRetries)
	}
	return nil
}
