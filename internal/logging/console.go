package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "15:04:05"

// consoleHandler writes one line per record for an interactive terminal:
//
//	12:00:00 WARN  pipeline yt_abc/download: message error=boom event_type=x
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool

	group     string
	component string
	subject   subject
	fields    []field
}

type subject struct {
	source string
	stage  string
}

func (s subject) String() string {
	switch {
	case s.source != "" && s.stage != "":
		return s.source + "/" + s.stage
	case s.source != "":
		return s.source
	default:
		return s.stage
	}
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	line := *h
	line.fields = append([]field(nil), h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		line.collect(h.group, attr)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString(ts.Local().Format(consoleTimeLayout))
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s", levelName(record.Level))
	if line.component != "" {
		b.WriteByte(' ')
		b.WriteString(line.component)
	}
	if s := line.subject.String(); s != "" {
		b.WriteByte(' ')
		b.WriteString(s)
		b.WriteByte(':')
	}
	b.WriteByte(' ')
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(msg)

	for _, f := range line.fields {
		if f.key == FieldCorrelationID && record.Level >= slog.LevelInfo {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(valueText(f.value)))
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&b, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = append([]field(nil), h.fields...)
	for _, attr := range attrs {
		next.collect(h.group, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.group + name + "."
	return &next
}

// collect routes header keys to the line prefix and everything else to the
// trailing key=value list. Later values replace earlier ones with the same key.
func (h *consoleHandler) collect(prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, inner := range attr.Value.Group() {
			h.collect(prefix, inner)
		}
		return
	}
	if prefix == "" {
		switch attr.Key {
		case FieldComponent:
			h.component = valueText(attr.Value)
			return
		case FieldSourceID:
			h.subject.source = valueText(attr.Value)
			return
		case FieldStage:
			h.subject.stage = valueText(attr.Value)
			return
		}
	}
	key := prefix + attr.Key
	for i := range h.fields {
		if h.fields[i].key == key {
			h.fields[i].value = attr.Value
			return
		}
	}
	h.fields = append(h.fields, field{key: key, value: attr.Value})
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindTime:
		return v.Time().Local().Format(time.DateTime)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
