package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POWDERCOAT_APP_ENV" default:"dev"`
	Port         string `envconfig:"POWDERCOAT_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"POWDERCOAT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POWDERCOAT_LOG_WARN_STACK" default:"false"`

	// StaticDir, when set, is served at / for the bundled frontend.
	StaticDir string `envconfig:"POWDERCOAT_STATIC_DIR"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"POWDERCOAT_DB_DSN"`

	Host     string `envconfig:"POWDERCOAT_DB_HOST"`
	Port     int    `envconfig:"POWDERCOAT_DB_PORT" default:"5432"`
	User     string `envconfig:"POWDERCOAT_DB_USER"`
	Password string `envconfig:"POWDERCOAT_DB_PASSWORD"`
	Name     string `envconfig:"POWDERCOAT_DB_NAME"`
	SSLMode  string `envconfig:"POWDERCOAT_DB_SSLMODE" default:"disable"`

	AutoMigrate bool `envconfig:"POWDERCOAT_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"POWDERCOAT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POWDERCOAT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POWDERCOAT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POWDERCOAT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: when URL is empty the API runs without the
// idempotency layer.
type RedisConfig struct {
	URL          string        `envconfig:"POWDERCOAT_REDIS_URL"`
	PoolSize     int           `envconfig:"POWDERCOAT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POWDERCOAT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POWDERCOAT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POWDERCOAT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POWDERCOAT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discreteValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discreteValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
