package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return c.validateStore()
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateStore() error {
	if strings.ContainsAny(c.Store.FileName, `/\`) {
		return errors.New("store.file_name must be a file name, not a path")
	}
	if c.Store.LockTimeoutSeconds < 0 {
		return errors.New("store.lock_timeout_seconds must be positive")
	}
	return nil
}
