package config

// EnvPrefix is applied by envconfig to every field below.
const EnvPrefix = "thirdline"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside envconfig tags (tests, docs).
const (
	EnvAppEnv   = "THIRDLINE_APP_ENV"
	EnvPort     = "THIRDLINE_APP_PORT"
	EnvDBDSN    = "THIRDLINE_DB_DSN"
	EnvDBHost   = "THIRDLINE_DB_HOST"
	EnvDBUser   = "THIRDLINE_DB_USER"
	EnvDBName   = "THIRDLINE_DB_NAME"
	EnvRedisURL = "THIRDLINE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
