package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SettableKeys lists the keys accepted by Set, in display order.
var SettableKeys = []string{
	"model",
	"format",
	"language",
	"output_dir",
	"clipboard",
	"quiet",
	"keep_audio",
	"cache.ttl_days",
	"diarization.hf_token",
}

// Set updates one persisted value in the file at path and writes it back.
// The returned config is normalized for immediate use.
func Set(path, key, value string) (*Config, error) {
	raw, resolvedPath, _, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	if err := raw.apply(strings.TrimSpace(key), value); err != nil {
		return nil, err
	}

	check := raw
	if err := check.normalize(); err != nil {
		return nil, err
	}
	if err := check.Validate(); err != nil {
		return nil, err
	}
	if err := raw.Save(resolvedPath); err != nil {
		return nil, err
	}
	return &check, nil
}

func (c *Config) apply(key, value string) error {
	switch key {
	case "model":
		c.Defaults.Model = value
	case "format":
		c.Defaults.Format = value
	case "language":
		c.Defaults.Language = value
	case "output_dir":
		c.Defaults.OutputDir = value
	case "clipboard":
		c.Defaults.Clipboard = parseBool(value)
	case "quiet":
		c.Defaults.Quiet = parseBool(value)
	case "keep_audio":
		c.Defaults.KeepAudio = parseBool(value)
	case "cache.ttl_days":
		days, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("cache.ttl_days: %q is not an integer", value)
		}
		c.Cache.TTLDays = days
	case "diarization.hf_token":
		c.Diarization.HFToken = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(SettableKeys, ", "))
	}
	return nil
}

// parseBool treats true, 1, and yes as true; anything else is false.
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Resolve returns explicit when the caller set it, otherwise configured.
func Resolve[T any](explicit T, explicitSet bool, configured T) T {
	if explicitSet {
		return explicit
	}
	return configured
}

// ResolveString returns the first non-blank of explicit, configured, fallback.
func ResolveString(explicit, configured, fallback string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(configured); v != "" {
		return v
	}
	return fallback
}

// Value returns the display value for a settable key.
func (c *Config) Value(key string) (string, bool) {
	switch key {
	case "model":
		return c.Defaults.Model, true
	case "format":
		return c.Defaults.Format, true
	case "language":
		return c.Defaults.Language, true
	case "output_dir":
		return c.Defaults.OutputDir, true
	case "clipboard":
		return strconv.FormatBool(c.Defaults.Clipboard), true
	case "quiet":
		return strconv.FormatBool(c.Defaults.Quiet), true
	case "keep_audio":
		return strconv.FormatBool(c.Defaults.KeepAudio), true
	case "cache.ttl_days":
		return strconv.Itoa(c.Cache.TTLDays), true
	case "diarization.hf_token":
		return MaskSecret(c.Diarization.HFToken), true
	default:
		return "", false
	}
}

// MaskSecret hides all but the last four characters of a token.
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
