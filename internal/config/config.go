package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rpggio/worklog/internal/duration"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Reporting ReportingConfig `yaml:"reporting"`
	Store     StoreConfig     `yaml:"store"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// AuthConfig controls bearer API-key auth. With auth disabled every request
// acts as DefaultOwner.
type AuthConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DefaultOwner string `yaml:"default_owner"`
}

// ReportingConfig shapes analytics output.
type ReportingConfig struct {
	Timezone          string    `yaml:"timezone"`
	HeatmapThresholds []float64 `yaml:"heatmap_thresholds"`
	MaxRangeDays      int       `yaml:"max_range_days"`
}

type StoreConfig struct {
	TxTimeout time.Duration `yaml:"tx_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "worklog.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Auth: AuthConfig{
			Enabled:      true,
			DefaultOwner: "default",
		},
		Reporting: ReportingConfig{
			Timezone:          "UTC",
			HeatmapThresholds: append([]float64(nil), duration.DefaultThresholds...),
			MaxRangeDays:      3660,
		},
		Store: StoreConfig{
			TxTimeout: 5 * time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("WORKLOG_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("WORKLOG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("WORKLOG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORKLOG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("WORKLOG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("WORKLOG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("WORKLOG_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("WORKLOG_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("WORKLOG_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORKLOG_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if owner := os.Getenv("WORKLOG_DEFAULT_OWNER"); owner != "" {
		cfg.Auth.DefaultOwner = owner
	}
	if tz := os.Getenv("WORKLOG_TIMEZONE"); tz != "" {
		cfg.Reporting.Timezone = tz
	}
	if timeout := os.Getenv("WORKLOG_TX_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORKLOG_TX_TIMEOUT: %w", err)
		}
		cfg.Store.TxTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if c.Transport.Mode != TransportHTTP && c.Transport.Mode != TransportStdio {
		errs = append(errs, fmt.Errorf("transport.mode %q must be %q or %q", c.Transport.Mode, TransportHTTP, TransportStdio))
	}
	if !c.Auth.Enabled && c.Auth.DefaultOwner == "" {
		errs = append(errs, errors.New("auth.default_owner is required when auth is disabled"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if err := duration.Thresholds(c.Reporting.HeatmapThresholds).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("reporting.heatmap_thresholds: %w", err))
	}
	if c.Reporting.MaxRangeDays <= 0 {
		errs = append(errs, fmt.Errorf("reporting.max_range_days %d must be positive", c.Reporting.MaxRangeDays))
	}
	if c.Store.TxTimeout <= 0 {
		errs = append(errs, fmt.Errorf("store.tx_timeout %s must be positive", c.Store.TxTimeout))
	}

	return errors.Join(errs...)
}

// Location resolves the reporting time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("reporting.timezone %q: %w", c.Reporting.Timezone, err)
	}
	return loc, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
