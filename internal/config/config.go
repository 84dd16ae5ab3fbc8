// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the primary prefix envconfig looks for. Every field also
// declares an unprefixed alternate name (TOKENS_KEY, DATA_CONNECTIONSTRING, ...).
const EnvPrefix = "PLANNING"

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig
	Tokens   TokensConfig
	Data     DataConfig
	Redis    RedisConfig
	Session  SessionConfig
	Password PasswordConfig
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects settings that envconfig accepts as present but empty.
func (c *Config) validate() error {
	for name, v := range map[string]string{
		"TOKENS_KEY":            c.Tokens.Key,
		"TOKENS_ISSUER":         c.Tokens.Issuer,
		"TOKENS_AUDIENCE":       c.Tokens.Audience,
		"DATA_CONNECTIONSTRING": c.Data.ConnectionString,
		"SESSION_SECRET":        c.Session.Secret,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return c.Data.validate()
}

type AppConfig struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	Port       string `envconfig:"APP_PORT" default:"8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"json"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:4200"`
}

// Addr returns the listen address for the HTTP server.
func (a AppConfig) Addr() string {
	return ":" + strings.TrimPrefix(a.Port, ":")
}

// TokensConfig holds the Tokens:Key, Tokens:Issuer and Tokens:Audience settings.
type TokensConfig struct {
	Key      string `envconfig:"TOKENS_KEY" required:"true"`
	Issuer   string `envconfig:"TOKENS_ISSUER" required:"true"`
	Audience string `envconfig:"TOKENS_AUDIENCE" required:"true"`
}

// DataConfig holds Data:ConnectionString plus pool and bootstrap settings.
type DataConfig struct {
	ConnectionString string        `envconfig:"DATA_CONNECTIONSTRING" required:"true"`
	Driver           string        `envconfig:"DATA_DRIVER" default:"postgres"`
	MaxOpenConns     int           `envconfig:"DATA_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns     int           `envconfig:"DATA_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime  time.Duration `envconfig:"DATA_CONN_MAX_LIFETIME" default:"1h"`
	ConnectTimeout   time.Duration `envconfig:"DATA_CONNECT_TIMEOUT" default:"60s"`
	AutoMigrate      bool          `envconfig:"DATA_AUTO_MIGRATE" default:"false"`
	Seed             bool          `envconfig:"DATA_SEED" default:"false"`
	SeedUserName     string        `envconfig:"DATA_SEED_USERNAME" default:"planner"`
	SeedUserPassword string        `envconfig:"DATA_SEED_PASSWORD"`
}

func (d *DataConfig) validate() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DATA_DRIVER %q", d.Driver)
	}
	if d.Seed && d.SeedUserPassword == "" {
		return fmt.Errorf("DATA_SEED_PASSWORD is required when DATA_SEED is enabled")
	}
	return nil
}

// RedisConfig is optional; an empty address means sessions are kept in SQL.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	// CacheTTL bounds how long employee and project reads stay cached.
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"5m"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

type SessionConfig struct {
	Secret string        `envconfig:"SESSION_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    uint32 `envconfig:"PASSWORD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        uint32 `envconfig:"PASSWORD_ARGON_TIME" default:"3"`
	ArgonParallelism uint8  `envconfig:"PASSWORD_ARGON_PARALLELISM" default:"2"`
}
