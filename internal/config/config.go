package config

import (
	"fmt"
	"os"
	"time"

	"RouletteSync/internal/apperr"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from config/config.yaml
// with sensitive values overridden from the environment.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// UpstreamConfig points at the third-party casino-game history endpoint.
type UpstreamConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	HistoryPath string `mapstructure:"history_path"`
	Timeout     int    `mapstructure:"timeout"` // seconds
	Proxy       string `mapstructure:"proxy"`
}

type RetentionConfig struct {
	Months int `mapstructure:"months"`
}

// Load reads config/config.yaml (optional) and .env (optional), then applies
// env overrides. The database DSN is the one required setting: without it the
// process refuses to start.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env may not exist

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// Running from just DATABASE_DSN is supported for the cron jobs.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Database.DSN == "" {
		return nil, &apperr.ConfigError{Msg: "database dsn is required (set database.dsn or DATABASE_DSN)"}
	}
	return &cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("UPSTREAM_PROXY"); v != "" {
		cfg.Upstream.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Upstream.HistoryPath == "" {
		cfg.Upstream.HistoryPath = "/api/roulette/history"
	}
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = 15
	}
	if cfg.Retention.Months == 0 {
		cfg.Retention.Months = 3
	}
}
