package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Dispatcher  DispatcherConfig  `mapstructure:"dispatcher"`
	Lock        LockConfig        `mapstructure:"lock"`
	Lifecycle   LifecycleConfig   `mapstructure:"lifecycle"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	Operator    OperatorConfig    `mapstructure:"operator"`
	CardNetwork CardNetworkConfig `mapstructure:"card_network"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DispatcherConfig tunes the bounded worker pool (internal/dispatcher).
type DispatcherConfig struct {
	Workers                       int           `mapstructure:"workers"`
	QueueCapacity                 int           `mapstructure:"queue_capacity"`
	GlobalCapacity                int64         `mapstructure:"global_capacity"`
	PerTenantCapacity             int64         `mapstructure:"per_tenant_capacity"`
	AllowConcurrentTeamProcessing bool          `mapstructure:"allow_concurrent_team_processing"`
	MaxRetries                    int           `mapstructure:"max_retries"`
}

// LockConfig selects the distributed lock backend (internal/lock):
// "redis" for multi-instance deployments, "memory" for single-process
// dev/test. TTL is loaded but not passed to the lock service; lock
// leases use the lifecycle engine's LockTimeout.
type LockConfig struct {
	Backend string        `mapstructure:"backend"` // "redis" or "memory"
	TTL     time.Duration `mapstructure:"ttl"`
}

// LifecycleConfig tunes internal/lifecycle.Engine's timeouts and retry
// policy.
type LifecycleConfig struct {
	LockTimeout       time.Duration `mapstructure:"lock_timeout"`
	ProcessingTimeout time.Duration `mapstructure:"processing_timeout"`
	GlobalConcurrency int64         `mapstructure:"global_concurrency"`
	MaxRetries        uint64        `mapstructure:"max_retries"`
}

// WebhookConfig tunes internal/webhook.Engine's worker pool. The
// per-notification-type retry table itself is a compiled-in constant
// (spec.md §4.6's fixed policy), not overridden here.
type WebhookConfig struct {
	Workers       int `mapstructure:"workers"`
	QueueCapacity int `mapstructure:"queue_capacity"`
}

// OperatorConfig configures the JWT that authenticates the admin
// bulk-delete surface. Operator tokens are minted out-of-band (by
// operator tooling holding Secret) — there is no operator login route.
type OperatorConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// CardNetworkConfig tunes the latency-only internal/adapter/cardnetwork
// stub standing in for a real acquirer/issuer round trip.
type CardNetworkConfig struct {
	Latency time.Duration `mapstructure:"latency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SPG_.
// Nested keys use underscore: SPG_DATABASE_HOST, SPG_DISPATCHER_WORKERS, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "payment_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("dispatcher.workers", 0) // 0 = runtime.NumCPU()
	v.SetDefault("dispatcher.queue_capacity", 10000)
	v.SetDefault("dispatcher.global_capacity", 0) // 0 = 2*workers
	v.SetDefault("dispatcher.per_tenant_capacity", 5)
	v.SetDefault("dispatcher.allow_concurrent_team_processing", false)
	v.SetDefault("dispatcher.max_retries", 3)
	v.SetDefault("lock.backend", "redis")
	v.SetDefault("lock.ttl", "30s")
	v.SetDefault("lifecycle.lock_timeout", "30s")
	v.SetDefault("lifecycle.processing_timeout", "2m")
	v.SetDefault("lifecycle.global_concurrency", 256)
	v.SetDefault("lifecycle.max_retries", 3)
	v.SetDefault("webhook.workers", 0) // 0 = runtime.NumCPU()
	v.SetDefault("webhook.queue_capacity", 2000)
	v.SetDefault("operator.secret", "")
	v.SetDefault("operator.issuer", "payment-gateway-core")
	v.SetDefault("card_network.latency", 150*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SPG_DATABASE_HOST -> database.host
	v.SetEnvPrefix("SPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
