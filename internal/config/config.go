package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigEnv names the environment variable pointing at the config file.
const ConfigEnv = "DATACHAT_CONFIG"

type Config struct {
	// Server
	Host        string `json:"host" yaml:"host" toml:"host" env:"DATACHAT_HOST" env-default:"0.0.0.0"`
	Port        int    `json:"port" yaml:"port" toml:"port" env:"DATACHAT_PORT" env-default:"8000"`
	Environment string `json:"environment" yaml:"environment" toml:"environment" env:"DATACHAT_ENV" env-default:"development"`
	APIPrefix   string `json:"api_prefix" yaml:"api_prefix" toml:"api_prefix" env-default:"/api/v1"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level" env:"DATACHAT_LOG_LEVEL" env-default:"info"`
	Locale      string `json:"locale" yaml:"locale" toml:"locale" env:"DATACHAT_LOCALE" env-default:"pt"`
	Title       string `json:"title" yaml:"title" toml:"title" env:"DATACHAT_TITLE" env-default:"DataChat"`

	// CORS
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"DATACHAT_CORS_ORIGINS"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute" toml:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"60"`

	// Warehouse
	ProjectID                    string `json:"project_id" yaml:"project_id" toml:"project_id" env:"GCP_PROJECT_ID"`
	DatasetID                    string `json:"dataset_id" yaml:"dataset_id" toml:"dataset_id" env:"DATASET_ID"`
	RegionID                     string `json:"region_id" yaml:"region_id" toml:"region_id" env:"REGION_ID" env-default:"US"`
	GoogleApplicationCredentials string `json:"google_application_credentials" yaml:"google_application_credentials" toml:"google_application_credentials" env:"GOOGLE_APPLICATION_CREDENTIALS"`
	WarehouseDriver              string `json:"warehouse_driver" yaml:"warehouse_driver" toml:"warehouse_driver" env:"DATACHAT_WAREHOUSE_DRIVER" env-default:"bigquery"`
	PostgresDSN                  string `json:"postgres_dsn" yaml:"postgres_dsn" toml:"postgres_dsn" env:"DATACHAT_POSTGRES_DSN"`
	QueryTimeoutSeconds          int    `json:"query_timeout_seconds" yaml:"query_timeout_seconds" toml:"query_timeout_seconds" env:"DATACHAT_QUERY_TIMEOUT" env-default:"300"`

	// Backend
	BackendURL string    `json:"backend_url" yaml:"backend_url" toml:"backend_url" env:"BACKEND_URL"`
	Endpoints  Endpoints `json:"endpoints" yaml:"endpoints" toml:"endpoints"`

	// Auth
	Auth AuthConfig `json:"auth" yaml:"auth" toml:"auth"`

	// Sessions
	SessionIdleMinutes int `json:"session_idle_minutes" yaml:"session_idle_minutes" toml:"session_idle_minutes" env:"DATACHAT_SESSION_IDLE_MINUTES" env-default:"30"`

	// Audit
	AuditLogging bool `json:"audit_logging" yaml:"audit_logging" toml:"audit_logging" env:"DATACHAT_AUDIT_LOGGING" env-default:"true"`
}

// Endpoints holds the path suffix of every backend operation.
type Endpoints struct {
	AvailableDatabases string `json:"available_databases" yaml:"available_databases" toml:"available_databases" env-default:"/available_databases"`
	KnownSQL           string `json:"get_known_sql" yaml:"get_known_sql" toml:"get_known_sql" env-default:"/get_known_sql"`
	GenerateSQL        string `json:"generate_sql" yaml:"generate_sql" toml:"generate_sql" env-default:"/generate_sql"`
	RunQuery           string `json:"run_query" yaml:"run_query" toml:"run_query" env-default:"/run_query"`
	EmbedSQL           string `json:"embed_sql" yaml:"embed_sql" toml:"embed_sql" env-default:"/embed_sql"`
	NaturalResponse    string `json:"natural_response" yaml:"natural_response" toml:"natural_response" env-default:"/natural_response"`
	GenerateViz        string `json:"generate_viz" yaml:"generate_viz" toml:"generate_viz" env-default:"/generate_viz"`
}

// AuthConfig switches on the authenticated variant: a login gate in front of
// the UI and bearer identity tokens on every backend call.
type AuthConfig struct {
	Enabled       bool     `json:"enabled" yaml:"enabled" toml:"enabled" env:"DATACHAT_AUTH_ENABLED" env-default:"false"`
	Audience      string   `json:"audience" yaml:"audience" toml:"audience" env:"DATACHAT_AUTH_AUDIENCE"`
	AccessKeys    []string `json:"access_keys" yaml:"access_keys" toml:"access_keys" env:"DATACHAT_ACCESS_KEYS"`
	SessionSecret string   `json:"session_secret" yaml:"session_secret" toml:"session_secret" env:"DATACHAT_SESSION_SECRET"`
	TokenCache    bool     `json:"token_cache" yaml:"token_cache" toml:"token_cache" env:"DATACHAT_TOKEN_CACHE" env-default:"false"`
}

// Load reads the file named by DATACHAT_CONFIG (if set) and applies
// environment overrides on top.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigEnv))
}

// LoadFile is Load with an explicit file path. An empty path reads the
// environment only.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyDerived(cfg)
	return cfg, nil
}

func applyDerived(cfg *Config) {
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = DefaultCORSOrigins
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = cfg.BackendURL
	}
	cfg.Locale = strings.ToLower(cfg.Locale)
	cfg.WarehouseDriver = strings.ToLower(cfg.WarehouseDriver)
}

// Validate reports configuration that would leave the chat pipeline unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend_url is required"))
	}
	switch c.WarehouseDriver {
	case DriverBigQuery:
		if c.ProjectID == "" {
			errs = append(errs, errors.New("project_id is required for the bigquery warehouse driver"))
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres_dsn is required for the postgres warehouse driver"))
		}
	case DriverBackend:
	default:
		errs = append(errs, fmt.Errorf("unknown warehouse_driver %q", c.WarehouseDriver))
	}
	if !supportedLocales[c.Locale] {
		errs = append(errs, fmt.Errorf("unsupported locale %q", c.Locale))
	}
	if c.Auth.Enabled && len(c.Auth.AccessKeys) == 0 {
		errs = append(errs, errors.New("auth.access_keys must not be empty when auth is enabled"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// QueryTimeout bounds a single warehouse execution.
func (c *Config) QueryTimeout() time.Duration {
	if c.QueryTimeoutSeconds <= 0 {
		return DefaultQueryTimeout
	}
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// SessionIdle is how long an untouched conversation survives.
func (c *Config) SessionIdle() time.Duration {
	if c.SessionIdleMinutes <= 0 {
		return DefaultSessionIdle
	}
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// Database is the logical dataset every question targets.
func (c *Config) Database() string {
	return c.DatasetID
}

// Resolved fills any empty path with its default suffix.
func (e Endpoints) Resolved() Endpoints {
	fill := func(v, def string) string {
		if v == "" {
			return def
		}
		if !strings.HasPrefix(v, "/") {
			return "/" + v
		}
		return v
	}
	return Endpoints{
		AvailableDatabases: fill(e.AvailableDatabases, PathAvailableDatabases),
		KnownSQL:           fill(e.KnownSQL, PathKnownSQL),
		GenerateSQL:        fill(e.GenerateSQL, PathGenerateSQL),
		RunQuery:           fill(e.RunQuery, PathRunQuery),
		EmbedSQL:           fill(e.EmbedSQL, PathEmbedSQL),
		NaturalResponse:    fill(e.NaturalResponse, PathNaturalResponse),
		GenerateViz:        fill(e.GenerateViz, PathGenerateViz),
	}
}
