package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"vidscribe/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	// Output defaults to os.Stderr so stdout stays free for progress lines.
	Output io.Writer
	// Development adds file:line to every record; debug level implies it.
	Development bool
}

// New builds a logger for opts.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(output, level, addSource)
	case "console":
		handler = newConsoleHandler(output, level, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	return slog.New(handler), nil
}

// OptionsFromConfig reads the [logging] section. A nil config, or empty
// values, yield a console logger at warn level.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{Level: "warn", Format: "console"}
	if cfg == nil {
		return opts
	}
	opts.Level = config.ResolveString("", cfg.Logging.Level, opts.Level)
	opts.Format = config.ResolveString("", cfg.Logging.Format, opts.Format)
	return opts
}

// parseLevel accepts slog level names (case-insensitive) plus "warning".
// Anything unrecognized falls back to warn.
func parseLevel(value string) slog.Level {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelWarn
	}
	return level
}
