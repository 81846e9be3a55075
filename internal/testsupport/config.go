// Package testsupport holds helpers shared by package tests: isolated
// configs, cache stores, and stub executables.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"vidscribe/internal/config"
)

// ConfigOption adjusts the config built by NewConfig.
type ConfigOption func(t *testing.T, base string, cfg *config.Config)

// NewConfig returns defaults rooted in a per-test temp directory: output under
// <base>/out and the cache at <base>/cache/transcripts.db. HOME and the
// Hugging Face token variables are reset so host settings never leak in.
func NewConfig(t *testing.T, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")

	cfg := config.Default()
	cfg.Defaults.OutputDir = filepath.Join(base, "out")
	cfg.Cache.Path = filepath.Join(base, "cache", "transcripts.db")
	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// WithHFToken sets diarization.hf_token.
func WithHFToken(token string) ConfigOption {
	return func(_ *testing.T, _ string, cfg *config.Config) {
		cfg.Diarization.HFToken = token
	}
}

// WithCacheDisabled sets cache.enabled = false.
func WithCacheDisabled() ConfigOption {
	return func(_ *testing.T, _ string, cfg *config.Config) {
		cfg.Cache.Enabled = false
	}
}

// WithStubbedBinaries puts exit-0 shell scripts for names first on PATH.
// With no names, yt-dlp, ffmpeg, ffprobe, and uvx are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t *testing.T, base string, _ *config.Config) {
		t.Helper()
		if len(names) == 0 {
			names = []string{"yt-dlp", "ffmpeg", "ffprobe", "uvx"}
		}
		binDir := filepath.Join(base, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			t.Fatalf("mkdir bin dir: %v", err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the temp directory NewConfig rooted cfg in.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Defaults.OutputDir)
}
