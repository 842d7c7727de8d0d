package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Optimizer.MaxChanges)
	assert.Equal(t, "power", cfg.Optimizer.PriorityMode)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeoutDuration())
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
port = 9090
rate_limit = 2.5

[optimizer]
priority_mode = "consistency"
prefetch = 4

[catalog]
file = "catalog.yaml"
watch = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
	assert.Equal(t, 20, cfg.Server.RateBurst, "unset keys keep defaults")
	assert.Equal(t, "consistency", cfg.Optimizer.PriorityMode)
	assert.Equal(t, 4, cfg.Optimizer.Prefetch)
	assert.Equal(t, 10, cfg.Optimizer.MaxChanges)
	assert.Equal(t, "catalog.yaml", cfg.Catalog.File)
	assert.True(t, cfg.Catalog.Watch)
}

func TestLoadFromBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Database.Path = "/tmp/decks.db"
	cfg.Log.Level = "debug"

	require.NoError(t, cfg.SaveTo(path))
	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	dbPath, err := loaded.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/decks.db", dbPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }},
		{"rate without burst", func(c *Config) { c.Server.RateBurst = 0 }},
		{"bad timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }},
		{"catalog extension", func(c *Config) { c.Catalog.File = "catalog.json" }},
		{"negative max changes", func(c *Config) { c.Optimizer.MaxChanges = -1 }},
		{"negative prefetch", func(c *Config) { c.Optimizer.Prefetch = -2 }},
		{"unknown mode", func(c *Config) { c.Optimizer.PriorityMode = "aggro" }},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Server.RateLimit = 0
	cfg.Server.RateBurst = 0
	assert.NoError(t, cfg.Validate(), "burst is ignored without a rate limit")
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"

	logger, err := cfg.NewLogger(false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	logger, err = cfg.NewLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	cfg.Log.Level = "loud"
	_, err = cfg.NewLogger(false)
	assert.Error(t, err)
}
