package services

import "context"

// ctxKey is unexported so only this package can set or read these values.
type ctxKey int

const (
	keySourceID ctxKey = iota
	keyStage
	keyRequestID
)

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// WithSourceID tags ctx with the video identifier or local file name being
// processed. Blank ids leave ctx unchanged.
func WithSourceID(ctx context.Context, id string) context.Context {
	return withString(ctx, keySourceID, id)
}

func SourceIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, keySourceID)
}

// WithStage tags ctx with the pipeline step (metadata, captions, download,
// transcribe, diarize, cache).
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, keyStage, stage)
}

func StageFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, keyStage)
}

// WithRequestID tags ctx with the run correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, keyRequestID, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, keyRequestID)
}
