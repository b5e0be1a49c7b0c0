package config

import (
	"errors"
	"time"
)

// Config represents the sync daemon configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Sankhya  SankhyaConfig  `mapstructure:"sankhya"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents daemon-level settings
type ServerConfig struct {
	HealthPort      int           `mapstructure:"health_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig represents the local PostgreSQL store configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MinConnections int    `mapstructure:"min_connections"`
}

// RedisConfig represents the run lock store configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SankhyaConfig represents the remote ERP gateway configuration
type SankhyaConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Token        string        `mapstructure:"token"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// SyncConfig represents sync engine tuning
type SyncConfig struct {
	// LockTTL bounds how long a crashed run can hold its pair's lock
	LockTTL time.Duration `mapstructure:"lock_ttl"`
}

// CacheConfig represents tenant cache configuration
type CacheConfig struct {
	TenantTTL time.Duration `mapstructure:"tenant_ttl"`
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Database == "" {
		return errors.New("database.database is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Redis.Host == "" {
		return errors.New("redis.host is required")
	}
	if c.Sankhya.BaseURL == "" {
		return errors.New("sankhya.base_url is required")
	}
	if c.Sankhya.Token == "" {
		return errors.New("sankhya.token is required")
	}
	if c.Sync.LockTTL <= 0 {
		return errors.New("sync.lock_ttl must be positive")
	}
	if c.Server.HealthPort <= 0 || c.Server.HealthPort > 65535 {
		return errors.New("server.health_port must be between 1 and 65535")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	return nil
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HealthPort:      8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			Database:       "sankhya_sync",
			User:           "syncd",
			Password:       "",
			MaxConnections: 20,
			MinConnections: 5,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB:       0,
		},
		Sankhya: SankhyaConfig{
			BaseURL:      "",
			Token:        "",
			FetchTimeout: 60 * time.Second,
		},
		Sync: SyncConfig{
			LockTTL: 30 * time.Minute,
		},
		Cache: CacheConfig{
			TenantTTL: 5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
