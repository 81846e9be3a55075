package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/source"
)

func (r *Runner) processLocal(ctx context.Context, path string) Result {
	result := Result{Input: path}
	ctx = services.WithSourceID(ctx, filepath.Base(path))
	logger := logging.WithContext(ctx, r.logger)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Err = services.Wrap(services.ErrNotFound, "input", "stat", "file not found: "+path, nil)
		} else {
			result.Err = services.Wrap(services.ErrValidation, "input", "stat", path, err)
		}
		return result
	}
	if info.IsDir() {
		result.Err = services.Wrap(services.ErrValidation, "input", "stat", path+" is a directory", nil)
		return result
	}

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result.Title = title
	base := r.outputBase(title)
	if err := ensureParentDir(base); err != nil {
		result.Err = err
		return result
	}

	extract := !source.IsAudioFile(path)
	var duration float64
	if inspector, ok := r.deps.Prober.(StreamInspector); ok {
		streams, err := inspector.Inspect(ctx, path)
		switch {
		case err != nil:
			logger.Debug("stream inspection failed", logging.Error(err))
		case streams.AudioStreamCount() == 0:
			result.Err = services.Wrap(services.ErrValidation, "input", "probe", "no audio stream in "+path, nil)
			return result
		default:
			if !streams.HasVideo() {
				extract = false
			}
			if d := streams.DurationSeconds(); d > 0 {
				duration = d
			}
		}
	}
	if duration == 0 && r.deps.Prober != nil {
		duration = r.deps.Prober.DurationSeconds(ctx, path)
	}
	r.out.header(filepath.Base(path), duration)

	audio := path
	if extract {
		temp := base + tempAudioSuffix
		r.out.step("Extracting audio from video...")
		if err := r.deps.Engine.ExtractAudio(services.WithStage(ctx, "extract"), path, temp); err != nil {
			result.Err = err
			return result
		}
		defer r.removeAudio(logger, temp)
		audio = temp
	}

	files, text, err := r.transcribeAndWrite(ctx, audio, base)
	if err != nil {
		result.Err = err
		return result
	}
	result.Source = SourceWhisper
	result.Files = files
	r.out.success("Transcription complete")
	r.out.files(files)
	if text != nil {
		r.copyToClipboard(ctx, *text)
	}
	logger.Info("local file transcribed",
		logging.String(logging.FieldEventType, "item_complete"),
		logging.Int("files", len(files)))
	return result
}
