package config

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "8981" {
					t.Errorf("Expected default Port to be '8981', got '%s'", cfg.Port)
				}
				if cfg.DataURL != "data/datos.json" {
					t.Errorf("Expected default DataURL, got '%s'", cfg.DataURL)
				}
				if cfg.ChartAttr != "data-visualizacion" {
					t.Errorf("Expected default ChartAttr 'data-visualizacion', got '%s'", cfg.ChartAttr)
				}
				if cfg.FetchTimeout != 0 || cfg.FetchRetries != 0 {
					t.Errorf("Expected no timeout and no retries by default, got %s / %d", cfg.FetchTimeout, cfg.FetchRetries)
				}
				if cfg.DeploymentMode != "local" {
					t.Errorf("Expected default DeploymentMode 'local', got '%s'", cfg.DeploymentMode)
				}
				if cfg.LocalOutputDir != "./charts" {
					t.Errorf("Expected default LocalOutputDir './charts', got '%s'", cfg.LocalOutputDir)
				}
				if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
					t.Errorf("unexpected log defaults: %s / %s", cfg.LogLevel, cfg.LogFormat)
				}
			},
		},
		{
			name: "custom configuration values",
			envVars: map[string]string{
				"PORT":            "9000",
				"DATA_URL":        "../data/charts.json",
				"DATA_BASE_URL":   "https://example.org/js/",
				"PAGE_PATH":       "/srv/site/index.html",
				"CHART_ATTR":      "data-graph",
				"FETCH_TIMEOUT":   "15s",
				"FETCH_RETRIES":   "2",
				"DEPLOYMENT_MODE": "gcs",
				"GCS_BUCKET":      "charts-bucket",
				"ENVIRONMENT":     "production",
				"LOG_LEVEL":       "debug",
				"LOG_FORMAT":      "text",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Port != "9000" {
					t.Errorf("Expected Port to be '9000', got '%s'", cfg.Port)
				}
				if cfg.DataURL != "../data/charts.json" || cfg.DataBaseURL != "https://example.org/js/" {
					t.Errorf("unexpected data location: %s %s", cfg.DataBaseURL, cfg.DataURL)
				}
				if cfg.ChartAttr != "data-graph" {
					t.Errorf("unexpected ChartAttr: %s", cfg.ChartAttr)
				}
				if cfg.FetchTimeout != 15*time.Second || cfg.FetchRetries != 2 {
					t.Errorf("unexpected fetch settings: %s / %d", cfg.FetchTimeout, cfg.FetchRetries)
				}
				if cfg.GCSBucket != "charts-bucket" {
					t.Errorf("Expected GCSBucket 'charts-bucket', got '%s'", cfg.GCSBucket)
				}
			},
		},
		{
			name:        "gcs mode without bucket",
			envVars:     map[string]string{"DEPLOYMENT_MODE": "gcs"},
			expectError: true,
		},
		{
			name:        "unknown deployment mode",
			envVars:     map[string]string{"DEPLOYMENT_MODE": "s3"},
			expectError: true,
		},
		{
			name:        "negative retries",
			envVars:     map[string]string{"FETCH_RETRIES": "-1"},
			expectError: true,
		},
		{
			name:        "malformed timeout",
			envVars:     map[string]string{"FETCH_TIMEOUT": "soon"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load(context.Background())

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PORT", "DATA_URL", "DATA_BASE_URL", "PAGE_PATH", "CHART_ATTR",
		"FETCH_TIMEOUT", "FETCH_RETRIES", "DEPLOYMENT_MODE", "LOCAL_OUTPUT_DIR",
		"GCS_BUCKET", "ENVIRONMENT", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, env := range envVars {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}
