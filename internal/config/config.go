// Package config loads the ottoshop configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Server contains the HTTP transport settings.
type Server struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level string `toml:"level"` // off, normal, verbose
	File  string `toml:"file"`  // empty or "stderr" logs to the console
}

// Store contains configuration for the reference file.
type Store struct {
	FileName           string `toml:"file_name"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
}

// Config encapsulates all configuration values for ottoshop.
//
// BaseDir holds the recipes and the shopping list file. Aisle and Pantry
// point at the optional aisle and pantry files; relative paths resolve
// against BaseDir.
type Config struct {
	BaseDir string  `toml:"base_dir"`
	Aisle   string  `toml:"aisle"`
	Pantry  string  `toml:"pantry"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
	Store   Store   `toml:"store"`
}

// DefaultConfigPath returns the absolute path of the default configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load parses and validates a configuration file. An empty path means the
// default location, which may be absent; an explicit path must exist.
// Environment overrides are applied on top of the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if path != "" && !exists {
		return nil, fmt.Errorf("config file %s does not exist", resolved)
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// LockTimeout is the store lock timeout as a duration.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Store.LockTimeoutSeconds) * time.Second
}

// LogToConsole reports whether logs go to stderr rather than a file.
func (c *Config) LogToConsole() bool {
	return c.Logging.File == "" || c.Logging.File == "stderr"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
