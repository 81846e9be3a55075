package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"vidscribe/internal/logging"
	"vidscribe/internal/transcript"
)

// CaptionLanguage is the only caption language requested from platforms.
const CaptionLanguage = "en"

// Captions describes the artifacts produced from a platform's own captions.
type Captions struct {
	// Paths lists the files written, txt first when present.
	Paths []string
	// Text is the plain-text transcript when a txt artifact was produced.
	Text string
}

// SubtitleFormat returns the caption format to request for an output format.
func SubtitleFormat(format transcript.Format) transcript.Format {
	if format == transcript.FormatSRT {
		return transcript.FormatSRT
	}
	return transcript.FormatVTT
}

// FetchNativeCaptions asks yt-dlp for English manual or automatic captions and
// converts them into the requested output format next to base. The boolean is
// false when no captions were available; failures of yt-dlp itself count as
// unavailable rather than as errors.
func (c *Client) FetchNativeCaptions(ctx context.Context, url, base string, format transcript.Format) (Captions, bool, error) {
	sub := SubtitleFormat(format)
	args := append(c.baseArgs(url),
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", CaptionLanguage,
		"--sub-format", string(sub),
		"--quiet",
		"--output", base,
		url,
	)
	if _, err := c.run(ctx, c.binary, args...); err != nil {
		if ctx.Err() != nil {
			return Captions{}, false, ctx.Err()
		}
		c.logger.Debug("native captions unavailable", logging.Error(err))
		return Captions{}, false, nil
	}

	captionFile := fmt.Sprintf("%s.%s.%s", base, CaptionLanguage, sub)
	raw, err := os.ReadFile(captionFile)
	if errors.Is(err, fs.ErrNotExist) {
		return Captions{}, false, nil
	}
	if err != nil {
		return Captions{}, false, fmt.Errorf("read captions: %w", err)
	}

	var result Captions
	if format.Includes(transcript.FormatTXT) {
		result.Text = CaptionText(string(raw))
		txtPath := base + ".txt"
		if err := os.WriteFile(txtPath, []byte(result.Text), 0o644); err != nil {
			return Captions{}, false, fmt.Errorf("write captions text: %w", err)
		}
		result.Paths = append(result.Paths, txtPath)
	}

	if format != transcript.FormatAll && format != sub {
		if err := os.Remove(captionFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("remove caption file failed", logging.Error(err))
		}
		return result, true, nil
	}
	finalPath := base + "." + string(sub)
	if err := os.Rename(captionFile, finalPath); err != nil {
		return Captions{}, false, fmt.Errorf("rename captions: %w", err)
	}
	result.Paths = append(result.Paths, finalPath)
	return result, true, nil
}

// CaptionText strips cue numbers, timing lines, and WebVTT headers from a
// caption file and joins the remaining lines with newlines.
func CaptionText(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "",
			strings.HasPrefix(line, "WEBVTT"),
			strings.HasPrefix(line, "Kind:"),
			strings.HasPrefix(line, "NOTE"),
			strings.Contains(line, "-->"),
			allDigits(line):
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
