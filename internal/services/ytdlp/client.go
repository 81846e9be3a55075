package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/source"
)

// DefaultBinary is the yt-dlp executable name.
const DefaultBinary = "yt-dlp"

// TikTokImpersonation is the browser target passed to --impersonate for TikTok.
const TikTokImpersonation = "chrome-131"

// ErrBlocked reports that the platform refused requests from this IP address.
var ErrBlocked = errors.New("platform is blocking this IP address")

// BlockedHelp lists workarounds for ErrBlocked.
const BlockedHelp = `Workarounds:
  1. Use --cookies to provide cookies from a logged-in browser session
     (export them with a browser extension such as "Get cookies.txt")
  2. Run vidscribe from a residential IP instead of a datacenter or VPS
  3. Use a VPN or proxy with a non-datacenter IP`

// Metadata is the subset of yt-dlp's info JSON the pipeline uses.
type Metadata struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Uploader   string  `json:"uploader"`
	Extractor  string  `json:"extractor_key"`
	WebpageURL string  `json:"webpage_url"`
}

// Client runs yt-dlp.
type Client struct {
	binary  string
	cookies string
	run     services.CommandRunner
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithCookies forwards a Netscape cookies file to every yt-dlp call.
func WithCookies(path string) Option {
	return func(c *Client) { c.cookies = strings.TrimSpace(path) }
}

// WithCommandRunner replaces process execution (used by tests).
func WithCommandRunner(run services.CommandRunner) Option {
	return func(c *Client) {
		if run != nil {
			c.run = run
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a client for the given binary (DefaultBinary when empty).
func New(binary string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	c := &Client{
		binary: binary,
		run:    services.ExecRunner(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "ytdlp")
	return c
}

// baseArgs returns the flags shared by every invocation for url.
func (c *Client) baseArgs(url string) []string {
	args := []string{"--no-playlist", "--no-warnings"}
	if source.IsTikTok(url) {
		args = append(args, "--impersonate", TikTokImpersonation)
	}
	if c.cookies != "" {
		args = append(args, "--cookies", c.cookies)
	}
	return args
}

// FetchMetadata returns the title and duration for url without downloading media.
func (c *Client) FetchMetadata(ctx context.Context, url string) (Metadata, error) {
	args := append(c.baseArgs(url), "--dump-single-json", "--skip-download", url)
	out, err := c.run(ctx, c.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return Metadata{}, ctx.Err()
		}
		if source.IsTikTok(url) && strings.Contains(strings.ToLower(err.Error()), "blocked") {
			return Metadata{}, services.Wrap(services.ErrExternalTool, "metadata", "yt-dlp", "TikTok refused the request", fmt.Errorf("%w\n\n%s", ErrBlocked, BlockedHelp))
		}
		return Metadata{}, services.Wrap(services.ErrExternalTool, "metadata", "yt-dlp", "fetch video info", err)
	}
	var meta Metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return Metadata{}, services.Wrap(services.ErrExternalTool, "metadata", "yt-dlp", "parse info json", err)
	}
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = "video"
	}
	return meta, nil
}

// FetchAudio downloads url's best audio stream as mp3 to dest and returns the
// final path. yt-dlp appends .mp3 when dest lacks it.
func (c *Client) FetchAudio(ctx context.Context, url, dest string) (string, error) {
	if dest == "" {
		return "", services.Wrap(services.ErrValidation, "download", "yt-dlp", "destination path required", nil)
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("download: ensure directory: %w", err)
		}
	}
	args := append(c.baseArgs(url),
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--no-progress",
		"--output", dest,
		url,
	)
	if _, err := c.run(ctx, c.binary, args...); err != nil {
		removed := removePartials(dest)
		c.logger.Debug("removed partial download",
			logging.String("dest", dest),
			logging.Int("files", removed))
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", services.Wrap(services.ErrExternalTool, "download", "yt-dlp", "download audio", err)
	}

	final := dest
	if !strings.HasSuffix(final, ".mp3") {
		final += ".mp3"
	}
	if _, err := os.Stat(final); err == nil {
		return final, nil
	}
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	return "", services.Wrap(services.ErrExternalTool, "download", "yt-dlp", "audio file missing after download", nil)
}

// removePartials deletes dest and any sibling files yt-dlp derived from it
// (.part, .ytdl, intermediate containers). It returns how many were removed.
func removePartials(dest string) int {
	dir := filepath.Dir(dest)
	prefix := filepath.Base(dest)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (name != prefix && !strings.HasPrefix(name, prefix+".")) {
			continue
		}
		if os.Remove(filepath.Join(dir, name)) == nil {
			removed++
		}
	}
	return removed
}
