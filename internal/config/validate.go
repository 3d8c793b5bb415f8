package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	// Values inside the range that miss the disc's title count are coerced
	// to title 1 at open time, not rejected here.
	if c.Source.Title < TitleMin || c.Source.Title > TitleMax {
		return fmt.Errorf("source.title must be between %d and %d", TitleMin, TitleMax)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
