package config

import "time"

const (
	DefaultEnvironment = "development"

	DefaultQueryTimeout = 300 * time.Second

	DefaultSessionIdle = 30 * time.Minute

	DefaultCORSMaxAge = 300
)

// Warehouse drivers accepted by Config.WarehouseDriver.
const (
	DriverBigQuery = "bigquery"
	DriverPostgres = "postgres"
	DriverBackend  = "backend"
)

// Default backend path suffixes, one per remote operation.
const (
	PathAvailableDatabases = "/available_databases"
	PathKnownSQL           = "/get_known_sql"
	PathGenerateSQL        = "/generate_sql"
	PathRunQuery           = "/run_query"
	PathEmbedSQL           = "/embed_sql"
	PathNaturalResponse    = "/natural_response"
	PathGenerateViz        = "/generate_viz"
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
}

var supportedLocales = map[string]bool{"en": true, "pt": true}
