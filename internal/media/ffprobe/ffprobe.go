package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidscribe/internal/services"
)

// DefaultBinary is the ffprobe executable name.
const DefaultBinary = "ffprobe"

// Result is the decoded subset of `ffprobe -show_format -show_streams` output.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream in the container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Prober runs ffprobe through a command runner.
type Prober struct {
	binary string
	run    services.CommandRunner
}

// New returns a prober for binary (DefaultBinary when empty). A nil runner
// executes the real process.
func New(binary string, run services.CommandRunner) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	if run == nil {
		run = services.ExecRunner()
	}
	return &Prober{binary: binary, run: run}
}

// Inspect decodes stream and container metadata for path.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	output, err := p.run(ctx, p.binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// DurationSeconds returns the container duration of path, or 0 when ffprobe
// fails or reports nothing usable.
func (p *Prober) DurationSeconds(ctx context.Context, path string) float64 {
	output, err := p.run(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0
	}
	value := parseFloat(string(output))
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	return value
}

// HasVideo reports whether any stream is a video stream. Attached cover art
// in audio files also counts.
func (r Result) HasVideo() bool {
	return r.count("video") > 0
}

// AudioStreamCount returns the number of audio streams.
func (r Result) AudioStreamCount() int {
	return r.count("audio")
}

func (r Result) count(kind string) int {
	n := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, kind) {
			n++
		}
	}
	return n
}

// DurationSeconds returns the container duration, or NaN when it is unparsable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
