package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath         = "~/.config/vidscribe/config.toml"
	defaultModel              = "base"
	defaultFormat             = "txt"
	defaultCacheTTLDays       = 30
	defaultVADMethod          = "silero"
	defaultDownloadWorkers    = 3
	defaultLogFormat          = "console"
	defaultLogLevel           = "warn"
	maxDownloadWorkers        = 16
	defaultCacheFileName      = "transcripts.db"
	defaultApplicationDirName = "vidscribe"
)

// Models lists the accepted WhisperX model names.
var Models = []string{
	"tiny", "tiny.en",
	"base", "base.en",
	"small", "small.en",
	"medium", "medium.en",
	"large", "large-v1", "large-v2", "large-v3", "large-v3-turbo", "turbo",
}

// Formats lists the accepted output formats.
var Formats = []string{"txt", "srt", "vtt", "json", "all"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Defaults: Defaults{
			Model:  defaultModel,
			Format: defaultFormat,
		},
		Cache: Cache{
			Enabled: true,
			TTLDays: defaultCacheTTLDays,
			Path:    defaultCachePath(),
		},
		WhisperX: WhisperX{
			VADMethod: defaultVADMethod,
		},
		Downloads: Downloads{
			Concurrency: defaultDownloadWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, defaultApplicationDirName, defaultCacheFileName)
	}
	return "~/.cache/" + defaultApplicationDirName + "/" + defaultCacheFileName
}
