package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "STOREFRONT_APP_ENV"
	EnvPort          = "STOREFRONT_APP_PORT"
	EnvAPIBaseURL    = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout    = "STOREFRONT_API_TIMEOUT"
	EnvAPIToken      = "STOREFRONT_API_TOKEN"
	EnvSessionSecret = "STOREFRONT_SESSION_SECRET"
	EnvStoreDriver   = "STOREFRONT_STORE_DRIVER"
	EnvRedisURL      = "STOREFRONT_REDIS_URL"
	EnvDBDSN         = "STOREFRONT_DB_DSN"
	EnvDBDriver      = "STOREFRONT_DB_DRIVER"
)

// Store drivers accepted by STOREFRONT_STORE_DRIVER.
const (
	StoreDriverMemory = "memory"
	StoreDriverRedis  = "redis"
	StoreDriverSQL    = "sql"
)

type Config struct {
	App       AppConfig
	API       APIConfig
	Session   SessionConfig
	Store     StoreConfig
	Redis     RedisConfig
	DB        DBConfig
	UI        UIConfig
	Workspace WorkspaceConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("%s must be an absolute url: %w", EnvAPIBaseURL, err)
	}
	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvRedisURL, EnvStoreDriver, StoreDriverRedis)
		}
	case StoreDriverSQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvStoreDriver, StoreDriverSQL)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStoreDriver, c.Store.Driver)
	}
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the catalog client at the REST backend.
type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
	Token   string        `envconfig:"STOREFRONT_API_TOKEN"`
}

type SessionConfig struct {
	Secret     string        `envconfig:"STOREFRONT_SESSION_SECRET" required:"true"`
	CookieName string        `envconfig:"STOREFRONT_SESSION_COOKIE" default:"storefront"`
	MaxAge     time.Duration `envconfig:"STOREFRONT_SESSION_MAX_AGE" default:"8760h"`
	Secure     bool          `envconfig:"STOREFRONT_SESSION_SECURE" default:"false"`
}

type StoreConfig struct {
	Driver string `envconfig:"STOREFRONT_STORE_DRIVER" default:"memory"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	// StateTTL expires idle client state; zero keeps it forever.
	StateTTL time.Duration `envconfig:"STOREFRONT_REDIS_STATE_TTL" default:"0"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	SlowQuery       time.Duration `envconfig:"STOREFRONT_DB_SLOW_QUERY" default:"200ms"`
}

// UIConfig holds view defaults shared by every workspace.
type UIConfig struct {
	PageSize          int           `envconfig:"STOREFRONT_PAGE_SIZE" default:"10"`
	NotificationTTL   time.Duration `envconfig:"STOREFRONT_NOTIFICATION_TTL" default:"4s"`
	AssignmentPath    string        `envconfig:"STOREFRONT_ASSIGNMENT_PATH" default:"/assignment"`
	AllowedCORSOrigin []string      `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

type WorkspaceConfig struct {
	IdleTTL       time.Duration `envconfig:"STOREFRONT_WORKSPACE_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_WORKSPACE_SWEEP_INTERVAL" default:"1m"`
}
