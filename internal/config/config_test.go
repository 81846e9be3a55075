package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidscribe/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	return home
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".config", "vidscribe", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Defaults.Model != "base" || cfg.Defaults.Format != "txt" {
		t.Fatalf("unexpected defaults %+v", cfg.Defaults)
	}
	if cfg.Cache.TTLDays != 30 || !cfg.Cache.Enabled {
		t.Fatalf("unexpected cache defaults %+v", cfg.Cache)
	}
	if cfg.Cache.Path != filepath.Join(home, ".cache", "vidscribe", "transcripts.db") {
		t.Fatalf("unexpected cache path %q", cfg.Cache.Path)
	}
	if cfg.Downloads.Concurrency != 3 {
		t.Fatalf("unexpected concurrency %d", cfg.Downloads.Concurrency)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.WhisperX.VADMethod != "silero" {
		t.Fatalf("unexpected vad method %q", cfg.WhisperX.VADMethod)
	}
}

func TestLoadHonorsXDGCacheHome(t *testing.T) {
	isolate(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cache.Path != filepath.Join(xdg, "vidscribe", "transcripts.db") {
		t.Fatalf("unexpected cache path %q", cfg.Cache.Path)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[defaults]
model = "Small"
format = "SRT"
output_dir = "~/transcripts"
clipboard = true

[cache]
ttl_days = 7
path = "~/cache.db"

[downloads]
concurrency = 0
cookies = "~/cookies.txt"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Defaults.Model != "small" || cfg.Defaults.Format != "srt" {
		t.Fatalf("expected lower-cased values, got %+v", cfg.Defaults)
	}
	if cfg.Defaults.OutputDir != filepath.Join(home, "transcripts") {
		t.Fatalf("unexpected output dir %q", cfg.Defaults.OutputDir)
	}
	if !cfg.Defaults.Clipboard {
		t.Fatal("expected clipboard enabled")
	}
	if cfg.Cache.TTLDays != 7 || cfg.Cache.Path != filepath.Join(home, "cache.db") {
		t.Fatalf("unexpected cache %+v", cfg.Cache)
	}
	if cfg.Downloads.Concurrency != 3 {
		t.Fatalf("non-positive concurrency should fall back to default, got %d", cfg.Downloads.Concurrency)
	}
	if cfg.Downloads.Cookies != filepath.Join(home, "cookies.txt") {
		t.Fatalf("unexpected cookies path %q", cfg.Downloads.Cookies)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"model", "[defaults]\nmodel = \"gigantic\"\n", "defaults.model"},
		{"format", "[defaults]\nformat = \"docx\"\n", "defaults.format"},
		{"ttl", "[cache]\nttl_days = -1\n", "cache.ttl_days"},
		{"vad", "[whisperx]\nvad_method = \"webrtc\"\n", "whisperx.vad_method"},
		{"level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"concurrency", "[downloads]\nconcurrency = 100\n", "downloads.concurrency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadReportsParseErrors(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[defaults\nmodel ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestHFTokenEnvironmentFallback(t *testing.T) {
	isolate(t)
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "hub-token")
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Diarization.HFToken != "hub-token" {
		t.Fatalf("expected hub token fallback, got %q", cfg.Diarization.HFToken)
	}

	t.Setenv("HF_TOKEN", "hf-token")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Diarization.HFToken != "hf-token" {
		t.Fatalf("HF_TOKEN should take precedence, got %q", cfg.Diarization.HFToken)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[diarization]\nhf_token = \"file-token\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err = config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Diarization.HFToken != "file-token" {
		t.Fatalf("config value should win over env, got %q", cfg.Diarization.HFToken)
	}
}

func TestSampleConfigParses(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded map[string]any
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	def := config.Default()
	if cfg.Defaults.Model != def.Defaults.Model || cfg.Cache.TTLDays != def.Cache.TTLDays {
		t.Fatalf("sample diverges from defaults: %+v", cfg)
	}
}

func TestSetPersistsTypedValues(t *testing.T) {
	isolate(t)
	t.Setenv("HF_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "config.toml")

	steps := []struct{ key, value string }{
		{"model", "medium"},
		{"clipboard", "yes"},
		{"quiet", "1"},
		{"keep_audio", "nope"},
		{"cache.ttl_days", "14"},
		{"format", "vtt"},
	}
	for _, step := range steps {
		if _, err := config.Set(path, step.key, step.value); err != nil {
			t.Fatalf("Set(%s): %v", step.key, err)
		}
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("Set should create the config file")
	}
	if cfg.Defaults.Model != "medium" || cfg.Defaults.Format != "vtt" {
		t.Fatalf("unexpected defaults %+v", cfg.Defaults)
	}
	if !cfg.Defaults.Clipboard || !cfg.Defaults.Quiet || cfg.Defaults.KeepAudio {
		t.Fatalf("unexpected bools %+v", cfg.Defaults)
	}
	if cfg.Cache.TTLDays != 14 {
		t.Fatalf("unexpected ttl %d", cfg.Cache.TTLDays)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if strings.Contains(string(data), "from-env") {
		t.Fatal("environment token must not be written to disk")
	}
}

func TestSetRejectsBadInput(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := config.Set(path, "colour", "blue"); err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	if _, err := config.Set(path, "cache.ttl_days", "soon"); err == nil {
		t.Fatal("expected integer parse error")
	}
	if _, err := config.Set(path, "model", "gigantic"); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("rejected values must not create the file, stat err=%v", err)
	}
}

func TestResolvePrecedence(t *testing.T) {
	if got := config.ResolveString("large", "small", "base"); got != "large" {
		t.Fatalf("explicit should win, got %q", got)
	}
	if got := config.ResolveString("  ", "small", "base"); got != "small" {
		t.Fatalf("config should beat default, got %q", got)
	}
	if got := config.ResolveString("", "", "base"); got != "base" {
		t.Fatalf("default expected, got %q", got)
	}
	if got := config.Resolve(false, true, true); got {
		t.Fatal("explicitly set false should win")
	}
	if got := config.Resolve(false, false, true); !got {
		t.Fatal("unset flag should defer to config")
	}
}

func TestValueMasksToken(t *testing.T) {
	cfg := config.Default()
	cfg.Diarization.HFToken = "hf_abcdefgh1234"
	got, ok := cfg.Value("diarization.hf_token")
	if !ok || !strings.HasSuffix(got, "1234") || strings.Contains(got, "abcdefgh") {
		t.Fatalf("unexpected masked value %q", got)
	}
	if _, ok := cfg.Value("unknown"); ok {
		t.Fatal("unknown key should not resolve")
	}
	for _, key := range config.SettableKeys {
		if _, ok := cfg.Value(key); !ok {
			t.Fatalf("settable key %q has no display value", key)
		}
	}
}
