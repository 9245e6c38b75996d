package xapplog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/duallog/pkg/config/xconf"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "./logs", cfg.App.Dir)
	assert.Equal(t, "app_log.txt", cfg.App.File)
	assert.Equal(t, int64(10*1024*1024), cfg.App.MaxSize)
	assert.Equal(t, "system_log.txt", cfg.System.File)
	assert.Equal(t, int64(50*1024*1024), cfg.System.MaxSize)
	assert.Equal(t, "Archive", cfg.Archive.Dir)
	assert.Equal(t, 30*24*time.Hour, cfg.Archive.Retention)
	assert.Equal(t, time.Hour, cfg.Rotation.Interval)
	assert.True(t, cfg.Rotation.Enabled)
	assert.True(t, cfg.Writer.MirrorStdout)
	assert.Equal(t, 3, cfg.Writer.Retry.Attempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Writer.Retry.Backoff)
	assert.False(t, cfg.Writer.Breaker.Enabled)
	assert.Equal(t, filepath.Join("logs", "app_log.txt"), cfg.App.Path())
}

func TestDefaultSystemDir(t *testing.T) {
	orig := userConfigDirFn
	t.Cleanup(func() { userConfigDirFn = orig })

	t.Run("user config dir", func(t *testing.T) {
		userConfigDirFn = func() (string, error) { return "/home/u/.config", nil }
		assert.Equal(t, filepath.Join("/home/u/.config", "duallog"), DefaultSystemDir())
	})

	t.Run("falls back to temp dir", func(t *testing.T) {
		userConfigDirFn = func() (string, error) { return "", errors.New("no home") }
		assert.Equal(t, filepath.Join(os.TempDir(), "duallog"), DefaultSystemDir())
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty app dir", func(c *Config) { c.App.Dir = " " }},
		{"file name with path", func(c *Config) { c.App.File = "../app_log.txt" }},
		{"empty file name", func(c *Config) { c.System.File = "" }},
		{"non-positive size", func(c *Config) { c.System.MaxSize = 0 }},
		{"empty archive dir", func(c *Config) { c.Archive.Dir = "" }},
		{"non-positive retention", func(c *Config) { c.Archive.Retention = 0 }},
		{"non-positive interval", func(c *Config) { c.Rotation.Interval = 0 }},
		{"zero attempts", func(c *Config) { c.Writer.Retry.Attempts = 0 }},
		{"negative backoff", func(c *Config) { c.Writer.Retry.Backoff = -time.Second }},
		{"breaker settings missing", func(c *Config) {
			c.Writer.Breaker = BreakerConfig{Enabled: true}
		}},
		{"bad diagnostics level", func(c *Config) { c.Diagnostics.Level = "loud" }},
		{"bad diagnostics format", func(c *Config) { c.Diagnostics.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("interval ignored when rotation disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Rotation = RotationConfig{Enabled: false}
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML overrides some keys", func(t *testing.T) {
		path := filepath.Join(dir, "duallog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
app:
  dir: /var/app/logs
system:
  max_size: 1024
archive:
  retention: 48h
writer:
  retry:
    attempts: 5
    backoff: 10ms
  breaker:
    enabled: true
diagnostics:
  level: debug
`), 0o600))

		cfg, src, err := LoadConfig(path)
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, path, src.Path())

		assert.Equal(t, "/var/app/logs", cfg.App.Dir)
		assert.Equal(t, "app_log.txt", cfg.App.File)
		assert.Equal(t, int64(1024), cfg.System.MaxSize)
		assert.Equal(t, 48*time.Hour, cfg.Archive.Retention)
		assert.Equal(t, 5, cfg.Writer.Retry.Attempts)
		assert.Equal(t, 10*time.Millisecond, cfg.Writer.Retry.Backoff)
		assert.True(t, cfg.Writer.Breaker.Enabled)
		assert.Equal(t, uint32(DefaultBreakerFailure), cfg.Writer.Breaker.Failures)
		assert.Equal(t, "debug", cfg.Diagnostics.Level)
		assert.Equal(t, time.Hour, cfg.Rotation.Interval)
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "duallog.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"rotation":{"interval":"30m"}}`), 0o600))

		cfg, _, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, cfg.Rotation.Interval)
		assert.Equal(t, DefaultDiagLevel, cfg.Diagnostics.Level)
	})

	t.Run("validation error", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("app:\n  max_size: -1\n"), 0o600))

		_, _, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("file not found", func(t *testing.T) {
		_, _, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestDecodeConfig(t *testing.T) {
	src, err := xconf.NewFromBytes([]byte(`{"app":{"file":"custom.log"}}`), xconf.FormatJSON)
	require.NoError(t, err)

	cfg, err := DecodeConfig(src)
	require.NoError(t, err)
	assert.Equal(t, "custom.log", cfg.App.File)
	assert.Equal(t, DefaultSystemFile, cfg.System.File)
}
