package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
)

const rule = "============================================================"

// printer writes user-facing progress. Everything except failures is
// suppressed in quiet mode.
type printer struct {
	w     io.Writer
	quiet bool
	color bool
}

func (p printer) paint(s string, colors text.Colors) string {
	if !p.color {
		return s
	}
	return colors.Sprint(s)
}

func (p printer) line(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p printer) header(title string, duration float64) {
	p.line("")
	p.line("%s", rule)
	p.line("%s", p.paint(title, text.Colors{text.Bold}))
	if duration > 0 {
		p.line("Duration: %s", FormatDuration(duration))
	}
	p.line("%s", rule)
}

func (p printer) step(msg string) {
	p.line("%s %s", p.paint("→", text.Colors{text.FgCyan}), msg)
}

func (p printer) success(msg string) {
	p.line("%s %s", p.paint("✓", text.Colors{text.FgGreen}), msg)
}

func (p printer) warn(msg string) {
	p.line("%s %s", p.paint("!", text.Colors{text.FgYellow}), msg)
}

func (p printer) fail(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.paint("✗", text.Colors{text.FgRed}), msg)
}

func (p printer) files(paths []string) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		p.line("  → %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	}
}

func (p printer) summary(succeeded, failed int) {
	p.line("")
	p.line("%s", rule)
	p.line("Summary: %d succeeded, %d failed", succeeded, failed)
	p.line("%s", rule)
}
