package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "powdercoat"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "POWDERCOAT_APP_ENV"
	EnvPort   = "POWDERCOAT_APP_PORT"
	EnvDBDSN  = "POWDERCOAT_DB_DSN"
	EnvDBHost = "POWDERCOAT_DB_HOST"
	EnvDBUser = "POWDERCOAT_DB_USER"
	EnvDBName = "POWDERCOAT_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
