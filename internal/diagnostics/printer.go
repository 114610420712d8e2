package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer renders diagnostics for humans. Color is decided once at
// construction time from the target descriptor.
type Printer struct {
	out      io.Writer
	colorize bool
}

func NewPrinter(out io.Writer) *Printer {
	colorize := false
	if f, ok := out.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{out: out, colorize: colorize}
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	posLabel   = color.New(color.FgCyan)
)

// Print writes every diagnostic on its own line, followed by a summary line
// when there is more than one.
func (p *Printer) Print(list List) {
	for _, d := range list {
		where := d.Token.Position()
		if d.File != "" {
			where = d.File + ":" + where
		}
		if p.colorize {
			errorLabel.Fprint(p.out, "error: ")
			posLabel.Fprint(p.out, where)
			fmt.Fprintf(p.out, ": %s\n", d.Message())
		} else {
			fmt.Fprintf(p.out, "error: %s: %s\n", where, d.Message())
		}
	}
	if len(list) > 1 {
		fmt.Fprintf(p.out, "%d errors\n", len(list))
	}
}
