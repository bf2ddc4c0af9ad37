package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the client reads.
	EnvPrefix = "SHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CredentialBackendSQLite = "sqlite"
	CredentialBackendRedis  = "redis"
)

type Config struct {
	App         AppConfig
	Gateway     GatewayConfig
	Credentials CredentialsConfig
	Redis       RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Credentials.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"SHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOP_LOG_FORMAT" default:"console"`
	LogWarnStack bool   `envconfig:"SHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// GatewayConfig points the remote call gateway at the shop backend.
type GatewayConfig struct {
	BaseURL string        `envconfig:"SHOP_API_BASE_URL" default:"http://localhost:8080"`
	Timeout time.Duration `envconfig:"SHOP_API_TIMEOUT" default:"10s"`
}

// CredentialsConfig selects where the bearer token and identity snapshot
// are persisted between runs.
type CredentialsConfig struct {
	Backend    string `envconfig:"SHOP_CREDENTIALS_BACKEND" default:"sqlite"`
	SQLitePath string `envconfig:"SHOP_CREDENTIALS_SQLITE_PATH" default:"webshop-credentials.db"`
	Namespace  string `envconfig:"SHOP_CREDENTIALS_NAMESPACE" default:"shop"`
}

func (c CredentialsConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case CredentialBackendSQLite, CredentialBackendRedis:
		return nil
	default:
		return fmt.Errorf("credentials backend must be %q or %q", CredentialBackendSQLite, CredentialBackendRedis)
	}
}

// NormalizedBackend returns the credential backend in canonical form.
func (c CredentialsConfig) NormalizedBackend() string {
	return strings.ToLower(strings.TrimSpace(c.Backend))
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOP_REDIS_URL"`
	Address      string        `envconfig:"SHOP_REDIS_ADDR"`
	Password     string        `envconfig:"SHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}
