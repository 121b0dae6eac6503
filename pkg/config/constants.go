package config

const (
	EnvPrefix = "FRESHMART"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv    = "FRESHMART_APP_ENV"
	EnvPort      = "FRESHMART_APP_PORT"
	EnvDBDSN     = "FRESHMART_DB_DSN"
	EnvDBHost    = "FRESHMART_DB_HOST"
	EnvDBUser    = "FRESHMART_DB_USER"
	EnvDBName    = "FRESHMART_DB_NAME"
	EnvRedisURL  = "FRESHMART_REDIS_URL"
	EnvJWTSecret = "FRESHMART_JWT_SECRET"
	EnvJWTIssuer = "FRESHMART_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
