// Package clipboard copies transcript text to the system clipboard using
// whichever clipboard utility is installed.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnavailable is returned when no clipboard utility is installed.
var ErrUnavailable = errors.New("no clipboard utility found (install pbcopy, wl-copy, xclip, or xsel)")

// Tool is a clipboard command that reads the text to copy from stdin.
type Tool struct {
	Name string
	Args []string
}

// Tools lists the supported utilities in preference order.
var Tools = []Tool{
	{Name: "pbcopy"},
	{Name: "wl-copy"},
	{Name: "xclip", Args: []string{"-selection", "clipboard"}},
	{Name: "xsel", Args: []string{"--clipboard", "--input"}},
}

// Copier writes text to the clipboard.
type Copier struct {
	lookPath func(string) (string, error)
	pipe     func(ctx context.Context, input string, name string, args ...string) error
}

// New returns a Copier that runs real processes.
func New() *Copier {
	return &Copier{lookPath: exec.LookPath, pipe: pipeToCommand}
}

// Detect returns the first installed clipboard tool.
func (c *Copier) Detect() (Tool, error) {
	for _, tool := range Tools {
		if _, err := c.lookPath(tool.Name); err == nil {
			return tool, nil
		}
	}
	return Tool{}, ErrUnavailable
}

// Copy places text on the clipboard.
func (c *Copier) Copy(ctx context.Context, text string) error {
	tool, err := c.Detect()
	if err != nil {
		return err
	}
	if err := c.pipe(ctx, text, tool.Name, tool.Args...); err != nil {
		return fmt.Errorf("clipboard: %s: %w", tool.Name, err)
	}
	return nil
}

func pipeToCommand(ctx context.Context, input string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(input)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
