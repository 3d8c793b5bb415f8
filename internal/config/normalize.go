package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSource(); err != nil {
		return err
	}
	if err := c.normalizeScanCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeSource() error {
	c.Source.OpticalDrive = strings.TrimSpace(c.Source.OpticalDrive)
	if c.Source.OpticalDrive == "" {
		c.Source.OpticalDrive = defaultOpticalDrive
	}
	return nil
}

func (c *Config) normalizeScanCache() error {
	if strings.TrimSpace(c.ScanCache.Path) == "" {
		c.ScanCache.Path = defaultScanCachePath
	}
	var err error
	if c.ScanCache.Path, err = expandPath(c.ScanCache.Path); err != nil {
		return fmt.Errorf("scan_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.LogDir) != "" {
		if expanded, err := expandPath(c.Logging.LogDir); err == nil {
			c.Logging.LogDir = expanded
		}
	}
}
