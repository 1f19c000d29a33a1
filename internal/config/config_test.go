package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cortexai/datachat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://backend.example.com/")
	t.Setenv("GCP_PROJECT_ID", "proj")

	cfg, err := config.LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "pt", cfg.Locale)
	assert.Equal(t, "US", cfg.RegionID)
	assert.Equal(t, config.DriverBigQuery, cfg.WarehouseDriver)
	assert.False(t, cfg.Auth.TokenCache, "tokens are fetched per call unless caching is enabled")
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, config.DefaultCORSOrigins, cfg.CORSOrigins)
	assert.Equal(t, "https://backend.example.com", cfg.BackendURL, "trailing slash trimmed")
	assert.Equal(t, cfg.BackendURL, cfg.Auth.Audience, "audience defaults to backend url")
	assert.Equal(t, config.DefaultQueryTimeout, cfg.QueryTimeout())
	assert.Equal(t, config.DefaultSessionIdle, cfg.SessionIdle())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileJSONWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"project_id": "file-project",
		"dataset_id": "sales",
		"region_id": "southamerica-east1",
		"backend_url": "https://file-backend",
		"locale": "en",
		"endpoints": {"generate_sql": "custom_sql"},
		"auth": {"enabled": true, "access_keys": ["k1"]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("GCP_PROJECT_ID", "env-project")

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-project", cfg.ProjectID)
	assert.Equal(t, "sales", cfg.Database())
	assert.Equal(t, "southamerica-east1", cfg.RegionID)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, []string{"k1"}, cfg.Auth.AccessKeys)

	eps := cfg.Endpoints.Resolved()
	assert.Equal(t, "/custom_sql", eps.GenerateSQL)
	assert.Equal(t, config.PathGenerateViz, eps.GenerateViz)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
project_id = "proj"
dataset_id = "ds"
backend_url = "http://b/"
warehouse_driver = "backend"
query_timeout_seconds = 45

[endpoints]
generate_sql = "/v2/generate_sql"

[auth]
enabled = true
access_keys = ["k1", "k2"]
token_cache = true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "proj", cfg.ProjectID)
	assert.Equal(t, "ds", cfg.Database())
	assert.Equal(t, "http://b", cfg.BackendURL)
	assert.Equal(t, config.DriverBackend, cfg.WarehouseDriver)
	assert.Equal(t, 45*time.Second, cfg.QueryTimeout())
	assert.Equal(t, "/v2/generate_sql", cfg.Endpoints.Resolved().GenerateSQL)
	assert.True(t, cfg.Auth.Enabled)
	assert.True(t, cfg.Auth.TokenCache)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.AccessKeys)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"missing backend", func(c *config.Config) { c.BackendURL = "" }, "backend_url"},
		{"bigquery without project", func(c *config.Config) { c.ProjectID = "" }, "project_id"},
		{"postgres without dsn", func(c *config.Config) { c.WarehouseDriver = config.DriverPostgres }, "postgres_dsn"},
		{"unknown driver", func(c *config.Config) { c.WarehouseDriver = "oracle" }, "warehouse_driver"},
		{"unknown locale", func(c *config.Config) { c.Locale = "fr" }, "locale"},
		{"auth without keys", func(c *config.Config) { c.Auth.Enabled = true }, "access_keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				BackendURL:      "https://b",
				ProjectID:       "p",
				WarehouseDriver: config.DriverBigQuery,
				Locale:          "pt",
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
