// Package config resolves where inctrack keeps its data and how it logs.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// INCTRACK_* environment variables. Command line flags are applied last by
// the commands package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend selects the storage implementation.
type Backend string

const (
	// BackendWorkbook keeps everything in an .xlsx file.
	BackendWorkbook Backend = "xlsx"
	// BackendSQLite keeps everything in a SQLite database.
	BackendSQLite Backend = "sqlite"
)

const (
	appDirName     = "IncidentTracker"
	configFileName = "config.yaml"

	workbookFileName = "incident_numbers.xlsx"
	sqliteFileName   = "incident_numbers.db"
)

// Config holds all runtime settings.
type Config struct {
	Backend     Backend `yaml:"backend"`
	File        string  `yaml:"file"`
	LatestFirst bool    `yaml:"latest_first"`
	LogLevel    string  `yaml:"log_level"`
	ExportDir   string  `yaml:"export_dir"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendWorkbook,
		LogLevel: "error",
	}
}

// LoadConfig reads the YAML file at path (optional when empty or missing and
// path is the default location) and applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if v := os.Getenv("INCTRACK_CONFIG"); v != "" && !explicit {
		path, explicit = v, true
	}
	if path == "" {
		dir, err := DataDir()
		if err == nil {
			path = filepath.Join(dir, configFileName)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// no config file is fine
		default:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("INCTRACK_BACKEND"); v != "" {
		cfg.Backend = Backend(strings.ToLower(v))
	}
	if v := os.Getenv("INCTRACK_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("INCTRACK_LATEST_FIRST"); v != "" {
		latest, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid INCTRACK_LATEST_FIRST %q (use true or false)", v)
		}
		cfg.LatestFirst = latest
	}
	if v := os.Getenv("INCTRACK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("INCTRACK_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	return nil
}

// Validate checks values that cannot be fixed up silently.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendWorkbook, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (use %s or %s)", c.Backend, BackendWorkbook, BackendSQLite)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DataFile returns the storage file path, defaulting to the data directory.
func (c Config) DataFile() (string, error) {
	if c.File != "" {
		return expandHome(c.File)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if c.Backend == BackendSQLite {
		return filepath.Join(dir, sqliteFileName), nil
	}
	return filepath.Join(dir, workbookFileName), nil
}

// Level returns the slog level for LogLevel.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelError, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelError, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// DataDir returns the per-user application data directory.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "windows":
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, appDirName), nil
		}
		return filepath.Join(home, "AppData", "Local", appDirName), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appDirName), nil
	default:
		if base := os.Getenv("XDG_DATA_HOME"); base != "" {
			return filepath.Join(base, appDirName), nil
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
