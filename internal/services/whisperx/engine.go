package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"vidscribe/internal/language"
	"vidscribe/internal/logging"
	"vidscribe/internal/media/ffprobe"
	"vidscribe/internal/services"
	"vidscribe/internal/transcript"
)

// Engine transcribes audio files with WhisperX.
type Engine struct {
	cfg    Config
	uvx    string
	ffmpeg string
	run    services.CommandRunner
	probe  *ffprobe.Prober
	logger *slog.Logger

	mu       sync.Mutex
	prepared bool
	workDir  string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithCommandRunner replaces process execution (used by tests).
func WithCommandRunner(run services.CommandRunner) Option {
	return func(e *Engine) {
		if run != nil {
			e.run = run
		}
	}
}

// WithBinaries overrides the uvx and ffmpeg executables. Empty values keep the defaults.
func WithBinaries(uvx, ffmpeg string) Option {
	return func(e *Engine) {
		if uvx != "" {
			e.uvx = uvx
		}
		if ffmpeg != "" {
			e.ffmpeg = ffmpeg
		}
	}
}

// WithProber sets the ffprobe wrapper used for duration fallback.
func WithProber(p *ffprobe.Prober) Option {
	return func(e *Engine) {
		if p != nil {
			e.probe = p
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine. Nothing is started until the first Transcribe call.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		uvx:    defaultUVX,
		ffmpeg: defaultFFmpeg,
		run:    services.ExecRunner(cfg.env()...),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.probe == nil {
		e.probe = ffprobe.New("", e.run)
	}
	e.logger = logging.NewComponentLogger(e.logger, "whisperx")
	return e
}

// Model returns the configured model name.
func (e *Engine) Model() string {
	if m := strings.TrimSpace(e.cfg.Model); m != "" {
		return m
	}
	return DefaultModel
}

// Prepared reports whether the engine has been initialized.
func (e *Engine) Prepared() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prepared
}

func (e *Engine) prepareLocked() error {
	if e.prepared {
		return nil
	}
	dir, err := os.MkdirTemp(e.cfg.WorkDir, "vidscribe-whisperx-")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "transcribe", "prepare", "create work directory", err)
	}
	e.workDir = dir
	e.prepared = true
	e.logger.Info("whisperx engine prepared",
		logging.String("model", e.Model()),
		logging.Bool("cuda", e.cfg.CUDAEnabled),
		logging.String("work_dir", dir))
	return nil
}

// Transcribe runs WhisperX on audioPath. language may be empty for
// auto-detection; it is normalized to an ISO 639-1 code.
func (e *Engine) Transcribe(ctx context.Context, audioPath, lang string) ([]transcript.Segment, transcript.Info, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, transcript.Info{}, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "audio path required", nil)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.prepareLocked(); err != nil {
		return nil, transcript.Info{}, err
	}

	outDir, err := os.MkdirTemp(e.workDir, "run-")
	if err != nil {
		return nil, transcript.Info{}, fmt.Errorf("transcribe: create output dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	args := e.buildArgs(audioPath, outDir, lang)
	if _, err := e.run(ctx, e.uvx, args...); err != nil {
		if ctx.Err() != nil {
			return nil, transcript.Info{}, ctx.Err()
		}
		return nil, transcript.Info{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "run whisperx", err)
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	payload, err := loadPayload(filepath.Join(outDir, stem+".json"))
	if err != nil {
		return nil, transcript.Info{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "load output", err)
	}

	segments := make([]transcript.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, transcript.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	if len(segments) == 0 {
		logging.WarnWithContext(e.logger, "no speech detected in audio", "no_speech",
			logging.String("audio", audioPath),
			logging.String(logging.FieldImpact, "transcript will be empty"),
			logging.String(logging.FieldErrorHint, "check that the input has an audible speech track"))
	}

	info := transcript.Info{
		Language:            payload.Language,
		LanguageProbability: payload.LanguageProbability,
		Duration:            payload.Duration,
	}
	if info.Language == "" {
		info.Language = language.ToISO2(lang)
	}
	if info.Duration <= 0 {
		info.Duration = e.probe.DurationSeconds(ctx, audioPath)
	}
	return segments, info, nil
}

// Close removes the scratch directory. The engine may be prepared again afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.prepared {
		return nil
	}
	e.prepared = false
	dir := e.workDir
	e.workDir = ""
	return os.RemoveAll(dir)
}

func (e *Engine) buildArgs(source, outputDir, lang string) []string {
	args := append([]string{}, e.cfg.indexArgs()...)
	args = append(args, "whisperx", source, "--model", e.Model(), "--output_dir", outputDir)
	args = append(args, decodeArgs...)

	args = append(args, "--vad_method", e.cfg.vad())
	if code := language.ToISO2(lang); code != "" {
		args = append(args, "--language", code)
	}
	return append(args, e.cfg.deviceArgs()...)
}

type segmentPayload struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type outputPayload struct {
	Segments            []segmentPayload `json:"segments"`
	Language            string           `json:"language"`
	LanguageProbability float64          `json:"language_probability"`
	Duration            float64          `json:"duration"`
}

func loadPayload(path string) (outputPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return outputPayload{}, err
	}
	var payload outputPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return outputPayload{}, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}
