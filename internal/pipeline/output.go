package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"vidscribe/internal/render"
	"vidscribe/internal/textutil"
	"vidscribe/internal/transcript"
)

const (
	audioSuffix     = ".audio.mp3"
	tempAudioSuffix = ".temp_audio.mp3"
	timestampLayout = "20060102_150405"
	fallbackTitle   = "video"
)

// outputBase resolves the extensionless output path for title:
// explicit -o, then the output directory, then the working directory.
func (r *Runner) outputBase(title string) string {
	if r.opts.Output != "" {
		return r.opts.Output
	}
	safe := textutil.SanitizeTitle(title, textutil.DefaultTitleLength)
	if safe == "" {
		safe = fallbackTitle
	}
	if r.opts.Timestamp {
		safe += "_" + r.now().Format(timestampLayout)
	}
	if r.opts.OutputDir != "" {
		return filepath.Join(r.opts.OutputDir, safe)
	}
	return safe
}

func ensureParentDir(base string) error {
	dir := filepath.Dir(base)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// plainText returns the txt artifact's content, if one was rendered.
func plainText(artifacts []render.Artifact) (string, bool) {
	for _, a := range artifacts {
		if a.Format == transcript.FormatTXT {
			return a.Content, true
		}
	}
	return "", false
}

// FormatDuration renders seconds as M:SS, or H:MM:SS from one hour up.
func FormatDuration(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00"
	}
	total := int64(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
