package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataPaths holds the locations TeamPulse reads and writes
type DataPaths struct {
	BaseDir      string // ~/.teampulse
	DatabasePath string // SQLite key-value store
	ConfigPath   string // config.yaml
	ExportDir    string // default directory for reports and CSV exports
}

// DetectDataPaths returns the default data paths for the current OS
func DetectDataPaths() (DataPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DataPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var baseDir string
	switch runtime.GOOS {
	case "darwin", "linux", "freebsd", "openbsd":
		baseDir = filepath.Join(home, ".teampulse")
	case "windows":
		configDir, err := os.UserConfigDir()
		if err != nil {
			return DataPaths{}, fmt.Errorf("failed to get config directory: %w", err)
		}
		baseDir = filepath.Join(configDir, "TeamPulse")
	default:
		return DataPaths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return DataPathsAt(baseDir), nil
}

// DataPathsAt lays the data paths out under baseDir
func DataPathsAt(baseDir string) DataPaths {
	return DataPaths{
		BaseDir:      baseDir,
		DatabasePath: filepath.Join(baseDir, "teampulse.db"),
		ConfigPath:   filepath.Join(baseDir, "config.yaml"),
		ExportDir:    filepath.Join(baseDir, "exports"),
	}
}

// DatabaseExists checks if the SQLite store file exists
func (p DataPaths) DatabaseExists() bool {
	_, err := os.Stat(p.DatabasePath)
	return err == nil
}

// ConfigExists checks if the config file exists
func (p DataPaths) ConfigExists() bool {
	_, err := os.Stat(p.ConfigPath)
	return err == nil
}
