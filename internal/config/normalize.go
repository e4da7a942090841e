package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		EnvBaseDir:  &c.BaseDir,
		EnvAisle:    &c.Aisle,
		EnvPantry:   &c.Pantry,
		EnvBind:     &c.Server.Bind,
		EnvLogLevel: &c.Logging.Level,
	} {
		if value := strings.TrimSpace(os.Getenv(env)); value != "" {
			*field = value
		}
	}
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLogging()
	c.normalizeStore()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.BaseDir) == "" {
		c.BaseDir = defaultBaseDir
	}
	if c.BaseDir, err = expandPath(strings.TrimSpace(c.BaseDir)); err != nil {
		return fmt.Errorf("base_dir: %w", err)
	}
	if c.Aisle, err = c.resolveSidecar(c.Aisle, defaultAisleFile); err != nil {
		return fmt.Errorf("aisle: %w", err)
	}
	if c.Pantry, err = c.resolveSidecar(c.Pantry, defaultPantryFile); err != nil {
		return fmt.Errorf("pantry: %w", err)
	}
	return nil
}

// resolveSidecar resolves an aisle or pantry path against the base
// directory. An unset path falls back to the conventional file under the
// base directory if that file exists, and stays empty otherwise.
func (c *Config) resolveSidecar(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		candidate := filepath.Join(c.BaseDir, fallback)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		return "", nil
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(c.BaseDir, value)
	}
	return expandPath(value)
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if !c.LogToConsole() {
		if expanded, err := expandPath(c.Logging.File); err == nil {
			c.Logging.File = expanded
		}
	}
}

func (c *Config) normalizeStore() {
	c.Store.FileName = strings.TrimSpace(c.Store.FileName)
	if c.Store.FileName == "" {
		c.Store.FileName = defaultStoreFileName
	}
	if c.Store.LockTimeoutSeconds == 0 {
		c.Store.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
}
