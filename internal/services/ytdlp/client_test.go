package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"vidscribe/internal/services"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/transcript"
)

type call struct {
	name string
	args []string
}

type scriptedRunner struct {
	calls []call
	fn    func(args []string) ([]byte, error)
}

func (r *scriptedRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, call{name: name, args: append([]string(nil), args...)})
	if r.fn == nil {
		return nil, nil
	}
	return r.fn(args)
}

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestFetchMetadataParsesInfo(t *testing.T) {
	runner := &scriptedRunner{fn: func([]string) ([]byte, error) {
		return []byte(`{"id":"abc","title":"Hello","duration":125.5,"uploader":"me","extractor_key":"Youtube"}`), nil
	}}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run), ytdlp.WithCookies("/tmp/cookies.txt"))

	meta, err := client.FetchMetadata(context.Background(), "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if meta.Title != "Hello" || meta.Duration != 125.5 || meta.Extractor != "Youtube" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	got := runner.calls[0]
	if got.name != ytdlp.DefaultBinary {
		t.Fatalf("binary = %q", got.name)
	}
	if argValue(got.args, "--cookies") != "/tmp/cookies.txt" {
		t.Fatalf("cookies not forwarded: %v", got.args)
	}
	if slices.Contains(got.args, "--impersonate") {
		t.Fatalf("impersonation should be TikTok only: %v", got.args)
	}
	if got.args[len(got.args)-1] != "https://youtu.be/abc" {
		t.Fatalf("url should be last: %v", got.args)
	}
}

func TestFetchMetadataDefaultsTitle(t *testing.T) {
	runner := &scriptedRunner{fn: func([]string) ([]byte, error) { return []byte(`{"duration":null}`), nil }}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))
	meta, err := client.FetchMetadata(context.Background(), "https://youtu.be/x")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if meta.Title != "video" || meta.Duration != 0 {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func TestFetchMetadataTikTokBlocked(t *testing.T) {
	runner := &scriptedRunner{fn: func([]string) ([]byte, error) {
		return nil, errors.New("yt-dlp: exit status 1: ERROR: Your IP address is blocked from accessing this post")
	}}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))

	_, err := client.FetchMetadata(context.Background(), "https://www.tiktok.com/@u/video/1")
	if !errors.Is(err, ytdlp.ErrBlocked) {
		t.Fatalf("expected ErrBlocked, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "--cookies") {
		t.Fatalf("expected workaround text, got %v", err)
	}
	if argValue(runner.calls[0].args, "--impersonate") != ytdlp.TikTokImpersonation {
		t.Fatalf("expected impersonation for TikTok: %v", runner.calls[0].args)
	}
}

func TestFetchMetadataGenericFailure(t *testing.T) {
	runner := &scriptedRunner{fn: func([]string) ([]byte, error) { return nil, errors.New("unsupported URL") }}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))
	_, err := client.FetchMetadata(context.Background(), "https://example.com/v")
	if err == nil || errors.Is(err, ytdlp.ErrBlocked) {
		t.Fatalf("expected plain external tool error, got %v", err)
	}
}

func TestFetchAudioAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.audio")
	runner := &scriptedRunner{fn: func(args []string) ([]byte, error) {
		out := argValue(args, "--output")
		return nil, os.WriteFile(out+".mp3", []byte("mp3"), 0o644)
	}}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))

	path, err := client.FetchAudio(context.Background(), "https://youtu.be/abc", dest)
	if err != nil {
		t.Fatalf("FetchAudio: %v", err)
	}
	if path != dest+".mp3" {
		t.Fatalf("path = %q", path)
	}
	args := runner.calls[0].args
	if argValue(args, "--audio-format") != "mp3" || argValue(args, "--format") != "bestaudio/best" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestFetchAudioKeepsMP3Destination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.audio.mp3")
	runner := &scriptedRunner{fn: func(args []string) ([]byte, error) {
		return nil, os.WriteFile(argValue(args, "--output"), []byte("mp3"), 0o644)
	}}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))
	path, err := client.FetchAudio(context.Background(), "https://youtu.be/abc", dest)
	if err != nil || path != dest {
		t.Fatalf("FetchAudio = %q, %v", path, err)
	}
}

func TestFetchAudioRemovesPartialsOnFailure(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "clip.audio.mp3")
	keep := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(keep, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := &scriptedRunner{fn: func(args []string) ([]byte, error) {
		out := argValue(args, "--output")
		_ = os.WriteFile(out+".part", []byte("partial"), 0o644)
		_ = os.WriteFile(out+".webm", []byte("partial"), 0o644)
		return nil, errors.New("network reset")
	}}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))

	if _, err := client.FetchAudio(context.Background(), "https://youtu.be/abc", dest); err == nil {
		t.Fatal("expected error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "other.txt" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("partials not cleaned up: %v", names)
	}
}

func TestFetchAudioCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	runner := &scriptedRunner{fn: func(args []string) ([]byte, error) {
		_ = os.WriteFile(argValue(args, "--output"), []byte("partial"), 0o644)
		cancel()
		return nil, errors.New("signal: killed")
	}}
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))
	dest := filepath.Join(dir, "clip.audio.mp3")
	_, err := client.FetchAudio(ctx, "https://youtu.be/abc", dest)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("partial file should be removed, stat err = %v", statErr)
	}
}

const sampleVTT = `WEBVTT
Kind: captions
Language: en

NOTE generated

1
00:00:00.000 --> 00:00:02.000
hello there

2
00:00:02.000 --> 00:00:04.000
  general kenobi  
`

func TestCaptionText(t *testing.T) {
	got := ytdlp.CaptionText(sampleVTT)
	want := "Language: en\nhello there\ngeneral kenobi"
	if got != want {
		t.Fatalf("CaptionText = %q, want %q", got, want)
	}
	if ytdlp.CaptionText("") != "" {
		t.Fatal("empty input should give empty text")
	}
}

func writeCaptionRunner(sub string) *scriptedRunner {
	return &scriptedRunner{fn: func(args []string) ([]byte, error) {
		base := argValue(args, "--output")
		return nil, os.WriteFile(base+".en."+sub, []byte(sampleVTT), 0o644)
	}}
}

func TestFetchNativeCaptionsTXT(t *testing.T) {
	base := filepath.Join(t.TempDir(), "talk")
	runner := writeCaptionRunner("vtt")
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))

	caps, ok, err := client.FetchNativeCaptions(context.Background(), "https://youtu.be/abc", base, transcript.FormatTXT)
	if err != nil || !ok {
		t.Fatalf("FetchNativeCaptions = %v, %v", ok, err)
	}
	if !slices.Equal(caps.Paths, []string{base + ".txt"}) {
		t.Fatalf("paths = %v", caps.Paths)
	}
	data, err := os.ReadFile(base + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != caps.Text || strings.HasSuffix(caps.Text, "\n") {
		t.Fatalf("unexpected text %q", data)
	}
	if _, err := os.Stat(base + ".en.vtt"); !os.IsNotExist(err) {
		t.Fatal("intermediate caption file should be removed")
	}
	args := runner.calls[0].args
	if argValue(args, "--sub-format") != "vtt" || argValue(args, "--sub-langs") != "en" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestFetchNativeCaptionsSRTRenames(t *testing.T) {
	base := filepath.Join(t.TempDir(), "talk")
	runner := writeCaptionRunner("srt")
	client := ytdlp.New("", ytdlp.WithCommandRunner(runner.run))

	caps, ok, err := client.FetchNativeCaptions(context.Background(), "https://youtu.be/abc", base, transcript.FormatSRT)
	if err != nil || !ok {
		t.Fatalf("FetchNativeCaptions = %v, %v", ok, err)
	}
	if !slices.Equal(caps.Paths, []string{base + ".srt"}) || caps.Text != "" {
		t.Fatalf("unexpected result %+v", caps)
	}
	if _, err := os.Stat(base + ".srt"); err != nil {
		t.Fatalf("renamed caption missing: %v", err)
	}
}

func TestFetchNativeCaptionsAllKeepsBoth(t *testing.T) {
	base := filepath.Join(t.TempDir(), "talk")
	client := ytdlp.New("", ytdlp.WithCommandRunner(writeCaptionRunner("vtt").run))

	caps, ok, err := client.FetchNativeCaptions(context.Background(), "https://youtu.be/abc", base, transcript.FormatAll)
	if err != nil || !ok {
		t.Fatalf("FetchNativeCaptions = %v, %v", ok, err)
	}
	if !slices.Equal(caps.Paths, []string{base + ".txt", base + ".vtt"}) {
		t.Fatalf("paths = %v", caps.Paths)
	}
}

func TestFetchNativeCaptionsUnavailable(t *testing.T) {
	base := filepath.Join(t.TempDir(), "talk")
	client := ytdlp.New("", ytdlp.WithCommandRunner((&scriptedRunner{}).run))
	_, ok, err := client.FetchNativeCaptions(context.Background(), "https://youtu.be/abc", base, transcript.FormatTXT)
	if err != nil || ok {
		t.Fatalf("expected unavailable, got %v, %v", ok, err)
	}

	failing := &scriptedRunner{fn: func([]string) ([]byte, error) { return nil, errors.New("no subtitles") }}
	client = ytdlp.New("", ytdlp.WithCommandRunner(failing.run))
	_, ok, err = client.FetchNativeCaptions(context.Background(), "https://youtu.be/abc", base, transcript.FormatTXT)
	if err != nil || ok {
		t.Fatalf("tool failure should be unavailable, got %v, %v", ok, err)
	}
}
