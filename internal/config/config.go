package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/budget"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const dirName = ".ptcg-companion"

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Optimizer OptimizerConfig `toml:"optimizer"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig contains REST API settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RateLimit      float64  `toml:"rate_limit"` // requests per second per client
	RateBurst      int      `toml:"rate_burst"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "30s"
}

// DatabaseConfig contains card and report storage settings.
type DatabaseConfig struct {
	Path        string `toml:"path"` // empty means ~/.ptcg-companion/data.db
	AutoMigrate bool   `toml:"auto_migrate"`
}

// CatalogConfig points at an optional curated catalog file.
type CatalogConfig struct {
	File  string `toml:"file"` // .toml, .yaml or .yml; empty uses built-in tables
	Watch bool   `toml:"watch"`
}

// OptimizerConfig holds budget optimizer defaults.
type OptimizerConfig struct {
	MaxChanges   int    `toml:"max_changes"`
	PriorityMode string `toml:"priority_mode"`
	Prefetch     int    `toml:"prefetch"` // concurrent lookups; 0 or 1 is sequential
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimit:      10,
			RateBurst:      20,
			RequestTimeout: "30s",
		},
		Database: DatabaseConfig{
			AutoMigrate: true,
		},
		Optimizer: OptimizerConfig{
			MaxChanges:   10,
			PriorityMode: string(budget.PriorityPower),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration at path. Missing keys keep their
// defaults and a missing file yields DefaultConfig.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit cannot be negative: %v", ErrInvalidConfig, c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst <= 0 {
		return fmt.Errorf("%w: rate burst must be positive when rate limiting", ErrInvalidConfig)
	}
	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("%w: request timeout %q: %v", ErrInvalidConfig, c.Server.RequestTimeout, err)
	}

	if c.Catalog.File != "" {
		switch strings.ToLower(filepath.Ext(c.Catalog.File)) {
		case ".toml", ".yaml", ".yml":
		default:
			return fmt.Errorf("%w: catalog file %q must be .toml, .yaml or .yml", ErrInvalidConfig, c.Catalog.File)
		}
	}

	if c.Optimizer.MaxChanges < 0 {
		return fmt.Errorf("%w: max changes cannot be negative: %d", ErrInvalidConfig, c.Optimizer.MaxChanges)
	}
	if c.Optimizer.Prefetch < 0 {
		return fmt.Errorf("%w: prefetch cannot be negative: %d", ErrInvalidConfig, c.Optimizer.Prefetch)
	}
	modes := []string{string(budget.PriorityPower), string(budget.PriorityConsistency), string(budget.PrioritySpeed)}
	if !slices.Contains(modes, c.Optimizer.PriorityMode) {
		return fmt.Errorf("%w: unknown priority mode %q", ErrInvalidConfig, c.Optimizer.PriorityMode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// RequestTimeoutDuration returns the request timeout, or 30s when unset.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// DatabasePath returns the configured database path or the default one.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data.db"), nil
}
