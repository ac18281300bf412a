// Package config loads service configuration from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Issue    IssueConfig    `mapstructure:"issue"`
	Lock     LockConfig     `mapstructure:"lock"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type AppConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"` // development | production
}

// Development reports whether the service runs in development mode.
func (a AppConfig) Development() bool {
	return a.Env == "development"
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug | info | warn | error
}

type DatabaseConfig struct {
	// URL is a pgx DSN. Empty selects the in-memory store.
	URL             string        `mapstructure:"url"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

// IssueConfig bounds the read-allocate-persist retry loop.
type IssueConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
}

// Lock backends.
const (
	LockPostgres = "postgres"
	LockRedis    = "redis"
	LockMemory   = "memory"
)

type LockConfig struct {
	// Backend is "postgres" (advisory xact lock), "redis" or "memory".
	Backend string `mapstructure:"backend"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads configuration. path may name a YAML file; a missing file means
// defaults plus environment (APP_PORT, DATABASE_URL, LOCK_BACKEND, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.migrate", true)
	v.SetDefault("issue.max_attempts", 5)
	v.SetDefault("issue.backoff", 10*time.Millisecond)
	v.SetDefault("lock.backend", LockPostgres)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Second)
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.Issue.MaxAttempts < 1 {
		return fmt.Errorf("issue.max_attempts must be >= 1, got %d", c.Issue.MaxAttempts)
	}
	switch c.Lock.Backend {
	case LockPostgres, LockRedis, LockMemory:
	default:
		return fmt.Errorf("lock.backend %q is not one of postgres, redis, memory", c.Lock.Backend)
	}
	if c.Lock.Backend == LockRedis && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be positive")
	}
	return nil
}
