package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Defaults holds per-run defaults that command-line flags override.
type Defaults struct {
	Model     string `toml:"model"`
	Format    string `toml:"format"`
	Language  string `toml:"language"`
	OutputDir string `toml:"output_dir"`
	Clipboard bool   `toml:"clipboard"`
	Quiet     bool   `toml:"quiet"`
	KeepAudio bool   `toml:"keep_audio"`
}

// Cache configures the transcript cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	TTLDays int    `toml:"ttl_days"`
	Path    string `toml:"path"`
}

// Diarization configures pyannote speaker diarization.
type Diarization struct {
	HFToken string `toml:"hf_token"`
}

// WhisperX configures the transcription engine.
type WhisperX struct {
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
}

// Downloads configures yt-dlp retrieval.
type Downloads struct {
	Concurrency int    `toml:"concurrency"`
	Cookies     string `toml:"cookies"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for vidscribe.
type Config struct {
	Defaults    Defaults    `toml:"defaults"`
	Cache       Cache       `toml:"cache"`
	Diarization Diarization `toml:"diarization"`
	WhisperX    WhisperX    `toml:"whisperx"`
	Downloads   Downloads   `toml:"downloads"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and environment fallbacks applied.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := loadRaw(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// loadRaw decodes the file over Default() without normalization.
func loadRaw(path string) (Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return cfg, "", false, err
	}
	if !exists {
		return cfg, resolvedPath, false, nil
	}

	file, err := os.Open(resolvedPath)
	if err != nil {
		return cfg, "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
	}
	return cfg, resolvedPath, true, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
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

// Save writes cfg to path as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(false)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
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
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// YTDLPBinary returns the yt-dlp executable name.
func (c *Config) YTDLPBinary() string {
	return "yt-dlp"
}

// UVXBinary returns the uvx executable used to run WhisperX and pyannote.
func (c *Config) UVXBinary() string {
	return "uvx"
}
