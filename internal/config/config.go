// Package config loads the dashboard configuration from YAML, a .env file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gss-dashboard/pkg/utils"
)

// DefaultDataURL is the published GSS 2018 extract.
const DefaultDataURL = "https://github.com/jkropko/DS-6001/raw/master/localdata/gss2018.csv"

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all dashboard configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Session SessionConfig `yaml:"session"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// DataConfig configures the dataset source and the static figures.
type DataConfig struct {
	Source       string `yaml:"source"`   // URL or path
	Encoding     string `yaml:"encoding"` // cp1252 for the published extract
	FetchTimeout string `yaml:"fetch_timeout"`
	Seed         uint64 `yaml:"seed"` // state assignment seed
	ScatterLimit int    `yaml:"scatter_limit"`
	PrestigeBins int    `yaml:"prestige_bins"`
}

// SessionConfig configures idle session eviction.
type SessionConfig struct {
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

// StoreConfig configures the SQLite session store.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "10s",
		},
		Data: DataConfig{
			Source:       DefaultDataURL,
			Encoding:     "cp1252",
			FetchTimeout: "2m",
			Seed:         2018,
			ScatterLimit: 200,
			PrestigeBins: 6,
		},
		Session: SessionConfig{
			TTL:           "30m",
			SweepInterval: "1m",
		},
		Store: StoreConfig{
			DSN: "file:gssdash?mode=memory&cache=shared",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (optional), applies .env and environment overrides, merges
// with defaults and validates.
func Load(path string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		loaded, err := LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	ApplyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads a YAML file and merges it with defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return Merge(loaded, Default()), nil
}

// Merge fills zero fields of cfg from defaults.
func Merge(cfg, defaults *Config) *Config {
	out := *cfg
	setString(&out.Server.Addr, defaults.Server.Addr)
	setString(&out.Server.ReadTimeout, defaults.Server.ReadTimeout)
	setString(&out.Server.WriteTimeout, defaults.Server.WriteTimeout)
	setString(&out.Server.ShutdownTimeout, defaults.Server.ShutdownTimeout)
	setString(&out.Data.Source, defaults.Data.Source)
	setString(&out.Data.Encoding, defaults.Data.Encoding)
	setString(&out.Data.FetchTimeout, defaults.Data.FetchTimeout)
	if out.Data.Seed == 0 {
		out.Data.Seed = defaults.Data.Seed
	}
	if out.Data.ScatterLimit == 0 {
		out.Data.ScatterLimit = defaults.Data.ScatterLimit
	}
	if out.Data.PrestigeBins == 0 {
		out.Data.PrestigeBins = defaults.Data.PrestigeBins
	}
	setString(&out.Session.TTL, defaults.Session.TTL)
	setString(&out.Session.SweepInterval, defaults.Session.SweepInterval)
	setString(&out.Store.DSN, defaults.Store.DSN)
	setString(&out.Logging.Level, defaults.Logging.Level)
	return &out
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// ApplyEnv overrides cfg from GSSDASH_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("GSSDASH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GSSDASH_DATA_URL"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("GSSDASH_DATA_ENCODING"); v != "" {
		cfg.Data.Encoding = v
	}
	if v := os.Getenv("GSSDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GSSDASH_DB"); v != "" {
		cfg.Store.DSN = v
	}
}

// Validate checks ranges and enumerations.
func Validate(cfg *Config) error {
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, cfg.Logging.Level)
	}
	if cfg.Data.Source == "" {
		return fmt.Errorf("%w: data.source is required", ErrInvalidConfig)
	}
	if cfg.Data.ScatterLimit < 0 || cfg.Data.PrestigeBins < 0 {
		return fmt.Errorf("%w: data.scatter_limit and data.prestige_bins must not be negative", ErrInvalidConfig)
	}
	for name, d := range map[string]string{
		"server.read_timeout":     cfg.Server.ReadTimeout,
		"server.write_timeout":    cfg.Server.WriteTimeout,
		"server.shutdown_timeout": cfg.Server.ShutdownTimeout,
		"data.fetch_timeout":      cfg.Data.FetchTimeout,
		"session.ttl":             cfg.Session.TTL,
		"session.sweep_interval":  cfg.Session.SweepInterval,
	} {
		if d == "" {
			continue
		}
		if v, err := time.ParseDuration(d); err != nil || v <= 0 {
			return fmt.Errorf("%w: %s %q is not a positive duration", ErrInvalidConfig, name, d)
		}
	}
	return nil
}

// Duration parses one of the duration fields, defaulting on error.
func Duration(s string, def time.Duration) time.Duration {
	return utils.ParseDuration(s, def)
}
