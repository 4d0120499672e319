package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer emits the bracketed progress tags the tool shows while
// working through conflicts. The tags are the interactive surface of
// the engine; structured logging runs alongside them.
type Printer struct {
	out io.Writer
	tag *color.Color
}

// NewPrinter returns a printer writing to w, or os.Stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out: w,
		tag: color.New(color.FgCyan, color.Bold),
	}
}

// Tagf prints "[TAG] >> message" on its own line.
func (p *Printer) Tagf(tag, format string, args ...interface{}) {
	fmt.Fprintln(p.out)
	p.tag.Fprintf(p.out, "[%s]", tag)
	if format == "" {
		fmt.Fprintln(p.out)
		return
	}
	fmt.Fprintf(p.out, " >> %s\n", fmt.Sprintf(format, args...))
}

// Linef prints a plain progress line.
func (p *Printer) Linef(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Out returns the underlying writer, for the runner's output tee.
func (p *Printer) Out() io.Writer {
	return p.out
}
