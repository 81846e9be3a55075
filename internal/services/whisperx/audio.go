package whisperx

import (
	"context"
	"errors"
	"os"
	"strings"

	"vidscribe/internal/services"
)

// ExtractAudio converts the audio track of a video file to mp3 at dest.
// dest is removed when ffmpeg fails.
func (e *Engine) ExtractAudio(ctx context.Context, video, dest string) error {
	if strings.TrimSpace(video) == "" || strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrValidation, "extract", "ffmpeg", "source and destination required", nil)
	}
	if _, err := e.run(ctx, e.ffmpeg, buildExtractArgs(video, dest)...); err != nil {
		if rmErr := os.Remove(dest); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			e.logger.Debug("remove partial audio failed", "error", rmErr)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "extract audio from video", err)
	}
	return nil
}

func buildExtractArgs(video, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", video,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		dest,
	}
}
