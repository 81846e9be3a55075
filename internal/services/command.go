package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner executes an external program and returns its standard output.
// Implementations must honor ctx cancellation.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner returns a CommandRunner backed by os/exec. extraEnv entries are
// appended to the inherited environment.
func ExecRunner(extraEnv ...string) CommandRunner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
		if len(extraEnv) > 0 {
			cmd.Env = append(os.Environ(), extraEnv...)
		}
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stdout.Bytes(), fmt.Errorf("%s: %w", name, ctxErr)
			}
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
			}
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, lastLines(detail, 5))
		}
		return stdout.Bytes(), nil
	}
}

func lastLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
