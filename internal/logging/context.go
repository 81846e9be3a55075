package logging

import (
	"context"
	"log/slog"

	"vidscribe/internal/services"
)

// Standard log keys.
const (
	FieldComponent     = "component"
	FieldSourceID      = "source_id" // video identifier or local file name
	FieldStage         = "stage"
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint" // what the user can try next
	FieldImpact        = "impact"     // user-facing consequence of a warning
	FieldDecisionType  = "decision_type"
)

// contextFields maps context lookups to the log keys they populate.
var contextFields = []struct {
	key    string
	lookup func(context.Context) (string, bool)
}{
	{FieldSourceID, services.SourceIDFromContext},
	{FieldStage, services.StageFromContext},
	{FieldCorrelationID, services.RequestIDFromContext},
}

// ContextFields returns the source, stage, and correlation attrs set on ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	for _, f := range contextFields {
		if v, ok := f.lookup(ctx); ok {
			attrs = append(attrs, slog.String(f.key, v))
		}
	}
	return attrs
}

// WithContext returns logger tagged with ContextFields(ctx), or logger itself
// when ctx carries none. A nil logger becomes a no-op logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	attrs := ContextFields(ctx)
	if len(attrs) == 0 {
		return logger
	}
	return logger.With(Args(attrs...)...)
}
