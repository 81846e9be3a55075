package pyannote

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"vidscribe/internal/logging"
	"vidscribe/internal/services"
	"vidscribe/internal/transcript"
)

// Model is the diarization pipeline loaded from Hugging Face.
const Model = "pyannote/speaker-diarization-3.1"

// Package is the pip requirement installed into the uvx environment.
const Package = "pyannote.audio>=3.1,<4"

//go:embed diarize.py
var helperScript []byte

// Diarizer runs the embedded helper script.
type Diarizer struct {
	uvx     string
	workDir string
	run     services.CommandRunner
	logger  *slog.Logger

	mu     sync.Mutex
	script string
}

// Option customizes a Diarizer.
type Option func(*Diarizer)

// WithCommandRunner replaces process execution (used by tests).
func WithCommandRunner(run services.CommandRunner) Option {
	return func(d *Diarizer) {
		if run != nil {
			d.run = run
		}
	}
}

// WithUVX overrides the uvx executable.
func WithUVX(binary string) Option {
	return func(d *Diarizer) {
		if binary != "" {
			d.uvx = binary
		}
	}
}

// WithWorkDir sets where the helper script is written. Empty uses os.TempDir.
func WithWorkDir(dir string) Option {
	return func(d *Diarizer) { d.workDir = dir }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Diarizer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a diarizer authenticated with token. The token reaches the
// helper through the environment, never the argument list.
func New(token string, opts ...Option) (*Diarizer, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "diarize", "token", "", ErrTokenMissing)
	}
	env := []string{"HF_TOKEN=" + token}
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	d := &Diarizer{
		uvx:    "uvx",
		run:    services.ExecRunner(env...),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "pyannote")
	return d, nil
}

func (d *Diarizer) scriptPath() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.script != "" {
		return d.script, nil
	}
	f, err := os.CreateTemp(d.workDir, "vidscribe-diarize-*.py")
	if err != nil {
		return "", fmt.Errorf("diarize: write helper: %w", err)
	}
	if _, err := f.Write(helperScript); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("diarize: write helper: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("diarize: write helper: %w", err)
	}
	d.script = f.Name()
	return d.script, nil
}

// Diarize returns the speaker turns found in audioPath. numSpeakers <= 0 lets
// pyannote estimate the count.
func (d *Diarizer) Diarize(ctx context.Context, audioPath string, numSpeakers int) ([]transcript.Turn, error) {
	script, err := d.scriptPath()
	if err != nil {
		return nil, err
	}
	args := []string{"--with", Package, "python", script, audioPath, "--model", Model}
	if numSpeakers > 0 {
		args = append(args, "--num-speakers", strconv.Itoa(numSpeakers))
	}

	d.logger.Info("running speaker diarization",
		logging.String("audio", filepath.Base(audioPath)),
		logging.Int("num_speakers", numSpeakers))
	out, err := d.run(ctx, d.uvx, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrExternalTool, "diarize", "pyannote", "run diarization", err)
	}

	var payload struct {
		Turns []transcript.Turn `json:"turns"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "diarize", "pyannote", "parse output", err)
	}
	d.logger.Info("speaker diarization complete",
		logging.Int("turns", len(payload.Turns)),
		logging.Int("speakers", countSpeakers(payload.Turns)))
	return payload.Turns, nil
}

// Close removes the helper script.
func (d *Diarizer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.script == "" {
		return nil
	}
	err := os.Remove(d.script)
	d.script = ""
	return err
}

func countSpeakers(turns []transcript.Turn) int {
	seen := make(map[string]struct{}, 4)
	for _, t := range turns {
		seen[t.Speaker] = struct{}{}
	}
	return len(seen)
}
