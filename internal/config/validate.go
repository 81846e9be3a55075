package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateWhisperX(); err != nil {
		return err
	}
	if err := c.validateDownloads(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDefaults() error {
	if !ValidModel(c.Defaults.Model) {
		return fmt.Errorf("defaults.model %q is not supported (choose from %s)", c.Defaults.Model, strings.Join(Models, ", "))
	}
	if !slices.Contains(Formats, c.Defaults.Format) {
		return fmt.Errorf("defaults.format %q is not supported (choose from %s)", c.Defaults.Format, strings.Join(Formats, ", "))
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLDays < 0 {
		return errors.New("cache.ttl_days must not be negative")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateWhisperX() error {
	switch c.WhisperX.VADMethod {
	case "silero", "pyannote":
		return nil
	default:
		return fmt.Errorf("whisperx.vad_method %q must be silero or pyannote", c.WhisperX.VADMethod)
	}
}

func (c *Config) validateDownloads() error {
	if c.Downloads.Concurrency > maxDownloadWorkers {
		return fmt.Errorf("downloads.concurrency must be at most %d", maxDownloadWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
}

// ValidModel reports whether name is an accepted WhisperX model.
func ValidModel(name string) bool {
	return slices.Contains(Models, strings.ToLower(strings.TrimSpace(name)))
}
