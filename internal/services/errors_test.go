package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"vidscribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "download", "yt-dlp", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"download", "yt-dlp", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestIsFatalAndKind(t *testing.T) {
	cfgErr := services.Wrap(services.ErrConfiguration, "config", "load", "bad toml", nil)
	if !services.IsFatal(cfgErr) {
		t.Fatal("configuration errors should be fatal")
	}
	if services.Kind(cfgErr) != "configuration" {
		t.Fatalf("unexpected kind %q", services.Kind(cfgErr))
	}

	toolErr := fmt.Errorf("item: %w", services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "", errors.New("exit 1")))
	if services.IsFatal(toolErr) {
		t.Fatal("tool failures should not be fatal")
	}
	if services.Kind(toolErr) != "external_tool" {
		t.Fatalf("unexpected kind %q", services.Kind(toolErr))
	}
	if services.Kind(errors.New("plain")) != "transient" {
		t.Fatal("unmarked errors should be transient")
	}
	if services.Kind(nil) != "" {
		t.Fatal("nil error should have no kind")
	}
}
