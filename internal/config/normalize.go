package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeDefaults()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeDiarization()
	c.normalizeWhisperX()
	if err := c.normalizeDownloads(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeDefaults() {
	c.Defaults.Model = strings.ToLower(strings.TrimSpace(c.Defaults.Model))
	if c.Defaults.Model == "" {
		c.Defaults.Model = defaultModel
	}
	c.Defaults.Format = strings.ToLower(strings.TrimSpace(c.Defaults.Format))
	if c.Defaults.Format == "" {
		c.Defaults.Format = defaultFormat
	}
	c.Defaults.Language = strings.TrimSpace(c.Defaults.Language)
	c.Defaults.OutputDir = strings.TrimSpace(c.Defaults.OutputDir)
	if c.Defaults.OutputDir != "" {
		if expanded, err := expandPath(c.Defaults.OutputDir); err == nil {
			c.Defaults.OutputDir = expanded
		}
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(strings.TrimSpace(c.Cache.Path)); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeDiarization() {
	c.Diarization.HFToken = strings.TrimSpace(c.Diarization.HFToken)
	if c.Diarization.HFToken != "" {
		return
	}
	for _, key := range []string{"HF_TOKEN", "HUGGING_FACE_HUB_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			c.Diarization.HFToken = strings.TrimSpace(value)
			return
		}
	}
}

func (c *Config) normalizeWhisperX() {
	c.WhisperX.VADMethod = strings.ToLower(strings.TrimSpace(c.WhisperX.VADMethod))
	if c.WhisperX.VADMethod == "" {
		c.WhisperX.VADMethod = defaultVADMethod
	}
}

func (c *Config) normalizeDownloads() error {
	if c.Downloads.Concurrency <= 0 {
		c.Downloads.Concurrency = defaultDownloadWorkers
	}
	c.Downloads.Cookies = strings.TrimSpace(c.Downloads.Cookies)
	if c.Downloads.Cookies != "" {
		expanded, err := expandPath(c.Downloads.Cookies)
		if err != nil {
			return fmt.Errorf("downloads.cookies: %w", err)
		}
		c.Downloads.Cookies = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
