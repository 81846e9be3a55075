package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vidscribe/internal/cache"
	"vidscribe/internal/logging"
	"vidscribe/internal/media/ffprobe"
	"vidscribe/internal/services"
	"vidscribe/internal/services/ytdlp"
	"vidscribe/internal/source"
	"vidscribe/internal/transcript"
	"vidscribe/internal/videoid"
)

// Downloader retrieves metadata, audio, and captions for remote URLs.
type Downloader interface {
	FetchMetadata(ctx context.Context, url string) (ytdlp.Metadata, error)
	FetchAudio(ctx context.Context, url, dest string) (string, error)
	FetchNativeCaptions(ctx context.Context, url, base string, format transcript.Format) (ytdlp.Captions, bool, error)
}

// Transcriber produces raw segments from audio. Calls are sequential.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) ([]transcript.Segment, transcript.Info, error)
	ExtractAudio(ctx context.Context, video, dest string) error
	Model() string
}

// Diarizer produces speaker turns for an audio file.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string, numSpeakers int) ([]transcript.Turn, error)
}

// Cache stores plain-text transcripts by video identifier and format.
type Cache interface {
	Get(ctx context.Context, id videoid.ID, format transcript.Format) (cache.Entry, bool)
	Put(ctx context.Context, entry cache.Entry) error
}

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// DurationProber reports a media file's duration in seconds (0 when unknown).
type DurationProber interface {
	DurationSeconds(ctx context.Context, path string) float64
}

// StreamInspector is an optional DurationProber extension used to vet local
// files before transcription.
type StreamInspector interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Options are the per-run settings after flag and config resolution.
type Options struct {
	// Output is an explicit output base path; only valid for a single input.
	Output       string
	OutputDir    string
	Language     string
	Format       transcript.Format
	Timestamp    bool
	Clipboard    bool
	KeepAudio    bool
	Quiet        bool
	NoCache      bool
	ForceWhisper bool
	Diarize      bool
	NumSpeakers  int
	// Concurrency bounds batch prefetching. Values <= 0 use 3.
	Concurrency int
	// Color enables ANSI styling of progress output.
	Color bool
}

// Deps are the collaborators a Runner drives. Cache, Diarizer, Clipboard,
// and Prober may be nil when the corresponding feature is off.
type Deps struct {
	Downloader Downloader
	Engine     Transcriber
	Diarizer   Diarizer
	Cache      Cache
	Clipboard  Clipboard
	Prober     DurationProber
	// Out receives user-facing progress. Nil discards it.
	Out    io.Writer
	Logger *slog.Logger
	// Now is the clock used for timestamped output names.
	Now func() time.Time
}

// Source records how an item's transcript was produced.
type Source string

const (
	SourceCache    Source = "cache"
	SourceCaptions Source = "captions"
	SourceWhisper  Source = "whisper"
)

// Result is the outcome of one input.
type Result struct {
	Input  string
	Title  string
	Source Source
	Files  []string
	Err    error
}

// Summary tallies a batch run. Results follow input order.
type Summary struct {
	RunID     string
	Results   []Result
	Succeeded int
	Failed    int
}

// Runner processes inputs.
type Runner struct {
	opts   Options
	deps   Deps
	out    printer
	logger *slog.Logger
	now    func() time.Time
}

// ErrOutputWithBatch rejects -o combined with several inputs.
var ErrOutputWithBatch = errors.New("-o/--output can only be used with a single input")

// New validates deps and returns a Runner.
func New(opts Options, deps Deps) (*Runner, error) {
	if deps.Engine == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "transcription engine required", nil)
	}
	if opts.Diarize && deps.Diarizer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "init", "diarization requested without a diarizer", nil)
	}
	if opts.Format == "" {
		opts.Format = transcript.FormatTXT
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	w := deps.Out
	if w == nil {
		w = io.Discard
	}
	return &Runner{
		opts:   opts,
		deps:   deps,
		out:    printer{w: w, quiet: opts.Quiet, color: opts.Color},
		logger: logging.NewComponentLogger(deps.Logger, "pipeline"),
		now:    deps.Now,
	}, nil
}

// Run processes inputs in order. Item failures are counted in the summary;
// the returned error is non-nil only for configuration problems that affect
// every item or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, inputs []string) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	if r.opts.Output != "" && len(inputs) > 1 {
		return summary, services.Wrap(services.ErrValidation, "pipeline", "options", "", ErrOutputWithBatch)
	}
	ctx = services.WithRequestID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("inputs", len(inputs)),
		logging.String("format", string(r.opts.Format)))

	pf := r.startPrefetch(ctx, inputs)
	defer pf.discard()

	var runErr error
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		var result Result
		if source.IsLocalFile(input) {
			result = r.processLocal(ctx, input)
		} else {
			result = r.processURL(ctx, input, pf.await(ctx, i))
		}
		summary.Results = append(summary.Results, result)
		if result.Err == nil {
			summary.Succeeded++
			continue
		}
		summary.Failed++
		logger.Info("input failed",
			logging.String(logging.FieldEventType, "item_failed"),
			logging.String("input", input),
			logging.String("error_kind", services.Kind(result.Err)),
			logging.Error(result.Err))
		if errors.Is(result.Err, context.Canceled) || errors.Is(result.Err, context.DeadlineExceeded) {
			runErr = result.Err
			break
		}
		r.out.fail(fmt.Sprintf("Error processing %s: %v", input, result.Err))
		if services.IsFatal(result.Err) {
			runErr = result.Err
			break
		}
	}

	if runErr != nil && ctx.Err() != nil {
		r.out.warn("Interrupted; remaining inputs skipped")
	}
	if len(inputs) > 1 {
		r.out.summary(summary.Succeeded, summary.Failed)
	}
	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed))
	return summary, runErr
}

// ProcessURL handles a single remote URL.
func (r *Runner) ProcessURL(ctx context.Context, url string) Result {
	return r.processURL(ctx, url, nil)
}

// ProcessLocal handles a single local media file.
func (r *Runner) ProcessLocal(ctx context.Context, path string) Result {
	return r.processLocal(ctx, path)
}
