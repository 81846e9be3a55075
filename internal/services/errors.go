package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error markers. Wrap tags failures with one of these so callers can
// classify them with errors.Is.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// kinds is checked in order; the first matching marker names the error.
var kinds = []struct {
	marker error
	label  string
}{
	{ErrConfiguration, "configuration"},
	{ErrValidation, "validation"},
	{ErrNotFound, "not_found"},
	{ErrTimeout, "timeout"},
	{ErrExternalTool, "external_tool"},
}

// Wrap returns "<marker>: <stage>: <operation>: <message>[: err]". Blank
// parts are skipped and a nil marker means ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	var parts []string
	for _, p := range []string{stage, operation, message} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	detail := "service failure"
	if len(parts) > 0 {
		detail = strings.Join(parts, ": ")
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// IsFatal reports whether err should stop a batch instead of being counted
// against a single input. Configuration problems affect every item equally.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// Kind labels err for log fields. Unmarked errors are "transient".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.label
		}
	}
	return "transient"
}
