package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvStoreDriver = "TEAMPULSE_STORE_DRIVER"
	EnvStoreDSN    = "TEAMPULSE_STORE_DSN"
	EnvTick        = "TEAMPULSE_TICK"
	EnvPrivacy     = "TEAMPULSE_PRIVACY"
	EnvLogLevel    = "TEAMPULSE_LOG_LEVEL"
	EnvDotEnv      = "TEAMPULSE_DOTENV"
)

// Config holds all TeamPulse settings
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Tracker TrackerConfig `yaml:"tracker"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// TrackerConfig configures detection sessions
type TrackerConfig struct {
	Interval   string `yaml:"interval"`    // tick period, e.g. "100ms"
	Privacy    bool   `yaml:"privacy"`     // add Laplace noise to scores
	BatchSize  int    `yaml:"batch_size"`  // records per emotion log write
	MaxRecords int    `yaml:"max_records"` // emotion log cap
}

// ExportConfig configures exports and reports
type ExportConfig struct {
	Format string `yaml:"format"` // default session export format
	Dir    string `yaml:"dir"`    // output directory
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level string `yaml:"level"` // error, warn, info, debug
}

// ValidStoreDrivers lists the supported KV backends
var ValidStoreDrivers = []string{"sqlite", "memory", "postgres"}

// DefaultConfig returns the default configuration for paths
func DefaultConfig(paths DataPaths) *Config {
	return &Config{
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    paths.DatabasePath,
		},
		Tracker: TrackerConfig{
			Interval:   DefaultTickInterval.String(),
			BatchSize:  DefaultLogBatchSize,
			MaxRecords: DefaultLogMaxRecords,
		},
		Export: ExportConfig{
			Format: "csv",
			Dir:    paths.ExportDir,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// A missing file is not an error. Environment overrides are applied last.
func LoadConfig(path string, paths DataPaths) (*Config, error) {
	cfg := DefaultConfig(paths)

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			LogDebug("No config file at %s, using defaults", path)
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvStoreDriver); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(EnvTick); v != "" {
		c.Tracker.Interval = v
	}
	if v := os.Getenv(EnvPrivacy); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvPrivacy, v, err)
		}
		c.Tracker.Privacy = enabled
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the configuration for values the stores and tracker cannot use
func (c *Config) Validate() error {
	validDriver := false
	for _, d := range ValidStoreDrivers {
		if c.Store.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid store driver: %s (valid: %v)", c.Store.Driver, ValidStoreDrivers)
	}
	if c.Store.Driver != "memory" && c.Store.DSN == "" {
		return fmt.Errorf("store driver %s requires a dsn", c.Store.Driver)
	}

	interval, err := time.ParseDuration(c.Tracker.Interval)
	if err != nil {
		return fmt.Errorf("invalid tracker interval %q: %w", c.Tracker.Interval, err)
	}
	if interval <= 0 {
		return fmt.Errorf("tracker interval must be positive, got %s", interval)
	}
	if c.Tracker.BatchSize < 1 {
		return fmt.Errorf("tracker batch_size must be at least 1, got %d", c.Tracker.BatchSize)
	}
	if c.Tracker.MaxRecords < 1 {
		return fmt.Errorf("tracker max_records must be at least 1, got %d", c.Tracker.MaxRecords)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "error", "warn", "warning", "info", "debug":
	default:
		return fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug)", c.Logging.Level)
	}
	return nil
}

// TickInterval returns the tracker interval, falling back to the default
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Tracker.Interval)
	if err != nil || d <= 0 {
		return DefaultTickInterval
	}
	return d
}

// LoadDotEnv loads .env.local and .env from dir (the working directory when
// empty) without overriding variables that are already set. Setting
// TEAMPULSE_DOTENV=0 disables it. It returns the files that were loaded.
func LoadDotEnv(dir string) ([]string, error) {
	if isDotEnvDisabled() {
		return nil, nil
	}

	var loaded []string
	for _, name := range []string{".env.local", ".env"} {
		p := filepath.Join(dir, name)
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("failed to load %s: %w", p, err)
		}
		LogDebug("Loaded env from %s", p)
		loaded = append(loaded, p)
	}
	return loaded, nil
}

func isDotEnvDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvDotEnv))) {
	case "0", "false", "off", "no":
		return true
	}
	return false
}
