package cmd

import (
	"fmt"

	"github.com/iksnae/teampulse/internal"
)

// App owns everything a command needs. It is built once per invocation.
type App struct {
	Paths   internal.DataPaths
	Config  *internal.Config
	KV      internal.KVStore
	Entries *internal.EntryStore
	Log     *internal.EmotionLog
	Auth    *internal.AuthManager
}

var current *App

// loadConfig resolves data paths and the configuration, applying flag overrides
func loadConfig() (internal.DataPaths, *internal.Config, error) {
	paths, err := internal.DetectDataPaths()
	if err != nil {
		return internal.DataPaths{}, nil, fmt.Errorf("failed to detect data paths: %w", err)
	}

	if configPath != "" {
		paths.ConfigPath = configPath
	}

	cfg, err := internal.LoadConfig(paths.ConfigPath, paths)
	if err != nil {
		return paths, nil, err
	}

	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
	}
	if storagePath != "" {
		cfg.Store.DSN = storagePath
	}
	if err := cfg.Validate(); err != nil {
		return paths, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !verbose {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.Logging.Level))
	}
	return paths, cfg, nil
}

// openApp loads configuration and opens the store, reusing an already open App
func openApp() (*App, error) {
	if current != nil {
		return current, nil
	}

	paths, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	kv, err := internal.NewKVStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	internal.LogDebug("Opened %s store", cfg.Store.Driver)

	emotionLog := internal.NewEmotionLog(kv)
	emotionLog.BatchSize = cfg.Tracker.BatchSize
	emotionLog.MaxRecords = cfg.Tracker.MaxRecords

	current = &App{
		Paths:   paths,
		Config:  cfg,
		KV:      kv,
		Entries: internal.NewEntryStore(kv),
		Log:     emotionLog,
		Auth:    internal.NewAuthManager(kv),
	}
	return current, nil
}

// closeApp flushes the emotion log and closes the store
func closeApp() {
	if current == nil {
		return
	}
	if err := current.Log.Flush(); err != nil {
		internal.LogWarn("Failed to flush emotion log: %v", err)
	}
	if err := current.KV.Close(); err != nil {
		internal.LogWarn("Failed to close store: %v", err)
	}
	current = nil
}
