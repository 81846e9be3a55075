package services_test

import (
	"context"
	"testing"

	"vidscribe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSourceID(ctx, "yt_dQw4w9WgXcQ")
	ctx = services.WithStage(ctx, "download")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.SourceIDFromContext(ctx); !ok || id != "yt_dQw4w9WgXcQ" {
		t.Fatalf("unexpected source id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "download" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithSourceID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.SourceIDFromContext(ctx); ok {
		t.Fatal("expected no source id")
	}
}
