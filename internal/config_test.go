package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvStoreDriver, EnvStoreDSN, EnvTick, EnvPrivacy, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	paths := DataPathsAt(t.TempDir())

	cfg, err := LoadConfig(paths.ConfigPath, paths)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(paths), cfg)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, paths.DatabasePath, cfg.Store.DSN)
	assert.Equal(t, paths.ExportDir, cfg.Export.Dir)
	assert.Equal(t, DefaultTickInterval, cfg.TickInterval())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	clearConfigEnv(t)
	paths := DataPathsAt(t.TempDir())
	yamlData := `store:
  driver: memory
tracker:
  interval: 250ms
  privacy: true
  batch_size: 5
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(paths.ConfigPath, []byte(yamlData), 0644))

	cfg, err := LoadConfig(paths.ConfigPath, paths)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval())
	assert.True(t, cfg.Tracker.Privacy)
	assert.Equal(t, 5, cfg.Tracker.BatchSize)
	assert.Equal(t, DefaultLogMaxRecords, cfg.Tracker.MaxRecords, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	clearConfigEnv(t)
	paths := DataPathsAt(t.TempDir())
	require.NoError(t, os.WriteFile(paths.ConfigPath, []byte("store: [oops"), 0644))

	_, err := LoadConfig(paths.ConfigPath, paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	paths := DataPathsAt(t.TempDir())
	t.Setenv(EnvStoreDriver, "postgres")
	t.Setenv(EnvStoreDSN, "postgres://localhost/teampulse")
	t.Setenv(EnvTick, "1s")
	t.Setenv(EnvPrivacy, "true")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := LoadConfig("", paths)
	require.NoError(t, err)
	assert.Equal(t, StoreConfig{Driver: "postgres", DSN: "postgres://localhost/teampulse"}, cfg.Store)
	assert.Equal(t, time.Second, cfg.TickInterval())
	assert.True(t, cfg.Tracker.Privacy)
	assert.Equal(t, "warn", cfg.Logging.Level)

	t.Setenv(EnvPrivacy, "sometimes")
	_, err = LoadConfig("", paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPrivacy)
}

func TestConfig_Validate(t *testing.T) {
	paths := DataPathsAt("/tmp/teampulse")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"memory without dsn", func(c *Config) { c.Store.Driver = "memory"; c.Store.DSN = "" }, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }, "invalid store driver"},
		{"sqlite without dsn", func(c *Config) { c.Store.DSN = "" }, "requires a dsn"},
		{"bad interval", func(c *Config) { c.Tracker.Interval = "fast" }, "invalid tracker interval"},
		{"zero interval", func(c *Config) { c.Tracker.Interval = "0s" }, "must be positive"},
		{"zero batch", func(c *Config) { c.Tracker.BatchSize = 0 }, "batch_size"},
		{"zero cap", func(c *Config) { c.Tracker.MaxRecords = 0 }, "max_records"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(paths)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_TickIntervalFallback(t *testing.T) {
	cfg := DefaultConfig(DataPathsAt(t.TempDir()))
	cfg.Tracker.Interval = "-5ms"
	assert.Equal(t, DefaultTickInterval, cfg.TickInterval())
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	clearConfigEnv(t)
	paths := DataPathsAt(t.TempDir())
	cfg := DefaultConfig(paths)
	cfg.Tracker.Privacy = true
	cfg.Export.Format = "jsonl"

	path := filepath.Join(paths.BaseDir, "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path, paths)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "TEAMPULSE_TEST_DOTENV"
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte(key+"=local\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=shared\nTEAMPULSE_TEST_OTHER=x\n"), 0644))

	t.Setenv(EnvDotEnv, "")
	t.Setenv(key, "")
	os.Unsetenv(key)
	t.Setenv("TEAMPULSE_TEST_OTHER", "preset")

	loaded, err := LoadDotEnv(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, ".env.local"), filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "local", os.Getenv(key), ".env.local wins over .env")
	assert.Equal(t, "preset", os.Getenv("TEAMPULSE_TEST_OTHER"), "existing variables are not overridden")
}

func TestLoadDotEnv_Disabled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TEAMPULSE_TEST_DISABLED=1\n"), 0644))
	t.Setenv(EnvDotEnv, "off")

	loaded, err := LoadDotEnv(dir)
	require.NoError(t, err)
	assert.Empty(t, loaded)
	_, set := os.LookupEnv("TEAMPULSE_TEST_DISABLED")
	assert.False(t, set)
}

func TestLoadDotEnv_MissingFiles(t *testing.T) {
	t.Setenv(EnvDotEnv, "")
	loaded, err := LoadDotEnv(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
