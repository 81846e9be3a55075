package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"vidscribe/internal/align"
	"vidscribe/internal/cache"
	"vidscribe/internal/language"
	"vidscribe/internal/logging"
	"vidscribe/internal/render"
	"vidscribe/internal/services"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/transcript"
	"vidscribe/internal/videoid"
)

// cacheLookup returns a fresh cached transcript for id, honoring --no-cache.
func (r *Runner) cacheLookup(ctx context.Context, id videoid.ID) (cache.Entry, bool) {
	if r.deps.Cache == nil || r.opts.NoCache {
		return cache.Entry{}, false
	}
	return r.deps.Cache.Get(ctx, id, r.opts.Format.CacheKey())
}

func (r *Runner) processURL(ctx context.Context, url string, pre *prefetched) Result {
	result := Result{Input: url}
	id := videoid.Derive(url)
	ctx = services.WithSourceID(ctx, id.String())
	logger := logging.WithContext(ctx, r.logger)

	if entry, ok := r.cacheLookup(services.WithStage(ctx, "cache"), id); ok {
		return r.writeCached(ctx, result, entry)
	}

	if r.deps.Downloader == nil {
		result.Err = services.Wrap(services.ErrConfiguration, "download", "init", "no downloader configured", nil)
		return result
	}

	var (
		meta            ytdlp.Metadata
		base            string
		prefetchedAudio string
	)
	if pre != nil {
		meta, base, prefetchedAudio = pre.meta, pre.base, pre.audio
	} else {
		m, err := r.deps.Downloader.FetchMetadata(services.WithStage(ctx, "metadata"), url)
		if err != nil {
			result.Err = err
			return result
		}
		meta = m
		base = r.outputBase(meta.Title)
		if err := ensureParentDir(base); err != nil {
			result.Err = err
			return result
		}
	}
	result.Title = meta.Title
	r.out.header(meta.Title, meta.Duration)

	if r.useNativeCaptions() {
		r.out.step("Checking for native captions...")
		caps, ok, err := r.deps.Downloader.FetchNativeCaptions(services.WithStage(ctx, "captions"), url, base, r.opts.Format)
		if err != nil {
			r.removeAudio(logger, prefetchedAudio)
			result.Err = err
			return result
		}
		if ok {
			if !r.opts.KeepAudio {
				r.removeAudio(logger, prefetchedAudio)
			}
			result.Source = SourceCaptions
			result.Files = caps.Paths
			r.out.success("Transcription complete (native captions)")
			r.out.files(caps.Paths)
			if r.opts.Format.Includes(transcript.FormatTXT) {
				r.storeTranscript(ctx, id, url, meta.Title, caps.Text, "")
				r.copyToClipboard(ctx, caps.Text)
			}
			logger.Info("transcript from native captions",
				logging.String(logging.FieldEventType, "item_complete"),
				logging.String("source", string(result.Source)))
			return result
		}
		logger.Debug("no native captions", logging.Args(logging.DecisionAttrs("transcript_source", "whisper", "captions unavailable")...)...)
	}

	audio := prefetchedAudio
	if audio == "" {
		r.out.step("Downloading audio...")
		var err error
		audio, err = r.deps.Downloader.FetchAudio(services.WithStage(ctx, "download"), url, base+audioSuffix)
		if err != nil {
			result.Err = err
			return result
		}
	}

	files, text, err := r.transcribeAndWrite(ctx, audio, base)
	if err != nil {
		r.removeAudio(logger, audio)
		result.Err = err
		return result
	}
	if r.opts.KeepAudio {
		r.out.line("  Audio saved: %s", audio)
	} else {
		r.removeAudio(logger, audio)
	}

	result.Source = SourceWhisper
	result.Files = files
	r.out.success("Transcription complete (Whisper)")
	r.out.files(files)
	if text != nil {
		r.storeTranscript(ctx, id, url, meta.Title, *text, r.deps.Engine.Model())
		r.copyToClipboard(ctx, *text)
	}
	logger.Info("transcript from whisper",
		logging.String(logging.FieldEventType, "item_complete"),
		logging.String("source", string(result.Source)),
		logging.Int("files", len(files)))
	return result
}

// useNativeCaptions reports whether platform captions may satisfy the
// requested format. Captions carry no segment metadata, so json always
// goes through Whisper.
func (r *Runner) useNativeCaptions() bool {
	return !r.opts.ForceWhisper && r.opts.Format != transcript.FormatJSON
}

func (r *Runner) writeCached(ctx context.Context, result Result, entry cache.Entry) Result {
	result.Title = entry.Title
	result.Source = SourceCache
	r.out.line("")
	r.out.line("Using cached transcript for: %s", entry.Title)

	base := r.outputBase(entry.Title)
	if err := ensureParentDir(base); err != nil {
		result.Err = err
		return result
	}
	path := fmt.Sprintf("%s.%s", base, r.opts.Format.CacheKey())
	if err := os.WriteFile(path, []byte(entry.Transcript), 0o644); err != nil {
		result.Err = fmt.Errorf("write cached transcript: %w", err)
		return result
	}
	result.Files = []string{path}
	r.out.success("Transcript written to " + path)
	r.copyToClipboard(ctx, entry.Transcript)
	return result
}

// transcribeAndWrite runs the engine (plus diarization when requested),
// renders every requested artifact, and returns the written paths and the
// plain-text content when a txt artifact was produced.
func (r *Runner) transcribeAndWrite(ctx context.Context, audio, base string) ([]string, *string, error) {
	logger := logging.WithContext(ctx, r.logger)
	r.out.step(fmt.Sprintf("Transcribing with %s model...", r.deps.Engine.Model()))
	segments, info, err := r.deps.Engine.Transcribe(services.WithStage(ctx, "transcribe"), audio, r.opts.Language)
	if err != nil {
		return nil, nil, err
	}
	if len(segments) == 0 {
		r.out.warn("No speech detected in audio")
	}
	if r.opts.Language == "" && info.Language != "" {
		r.out.step("Detected language: " + language.DisplayName(info.Language))
	}

	if r.opts.Diarize {
		segments, err = r.diarize(ctx, audio, segments)
		if err != nil {
			return nil, nil, err
		}
	}

	artifacts, err := render.Render(segments, r.opts.Format, render.Options{Diarized: r.opts.Diarize, Info: &info})
	if err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "render", "", "", err)
	}
	files, err := render.WriteFiles(base, artifacts)
	if err != nil {
		return files, nil, err
	}
	logger.Debug("artifacts written", logging.Int("files", len(files)))
	if text, ok := plainText(artifacts); ok {
		return files, &text, nil
	}
	return files, nil, nil
}

// diarize aligns speaker turns onto segments. Diarization failures fall back
// to the unlabeled segments; only cancellation is returned.
func (r *Runner) diarize(ctx context.Context, audio string, segments []transcript.Segment) ([]transcript.Segment, error) {
	r.out.step("Running speaker diarization...")
	turns, err := r.deps.Diarizer.Diarize(services.WithStage(ctx, "diarize"), audio, r.opts.NumSpeakers)
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	result := align.FromTurns(segments, turns, err)
	if !result.OK() {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "diarization failed; continuing without speaker labels", "diarization_failed",
			logging.String("reason", result.Reason()),
			logging.String(logging.FieldImpact, "transcript has no speaker labels"),
			logging.String(logging.FieldErrorHint, "check the Hugging Face token and model license acceptance"))
		r.out.warn("Diarization failed: " + result.Reason())
		r.out.line("  Continuing without speaker labels...")
	}
	return result.Segments(segments), nil
}

func (r *Runner) storeTranscript(ctx context.Context, id videoid.ID, url, title, text, model string) {
	if r.deps.Cache == nil || r.opts.NoCache {
		return
	}
	err := r.deps.Cache.Put(services.WithStage(ctx, "cache"), cache.Entry{
		VideoID:    id,
		Format:     transcript.FormatTXT,
		URL:        url,
		Title:      title,
		Transcript: text,
		Model:      model,
	})
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "cache write failed", "cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the next run will transcribe again"))
		return
	}
	r.out.line("Cached for future use")
}

func (r *Runner) copyToClipboard(ctx context.Context, text string) {
	if !r.opts.Clipboard {
		return
	}
	if r.deps.Clipboard == nil {
		r.out.warn("Clipboard copy skipped: no clipboard available")
		return
	}
	if err := r.deps.Clipboard.Copy(ctx, text); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "clipboard copy failed", "clipboard_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcript files were still written"))
		r.out.warn(fmt.Sprintf("Clipboard copy failed: %v", err))
		return
	}
	r.out.line("Copied to clipboard")
}

func (r *Runner) removeAudio(logger *slog.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug("remove audio failed", logging.Error(err))
	}
}

