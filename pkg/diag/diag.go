// Package diag surfaces recoverable failures to the user without stopping
// the session.
package diag

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
)

// Reporter shows a non-blocking diagnostic. Operations that report an error
// are abandoned by the caller; the process keeps running.
type Reporter interface {
	Report(title string, err error)
}

// Func adapts a function to Reporter.
type Func func(title string, err error)

func (f Func) Report(title string, err error) {
	f(title, err)
}

// Discard drops every diagnostic.
var Discard Reporter = Func(func(string, error) {})

// Printer writes diagnostics as a colored line and logs them.
type Printer struct {
	Out io.Writer
	Log *slog.Logger
}

// NewPrinter reports to color.Error and the default logger.
func NewPrinter() *Printer {
	return &Printer{Out: color.Error, Log: slog.Default()}
}

func (p *Printer) Report(title string, err error) {
	if err == nil {
		return
	}
	if p.Log != nil {
		p.Log.Warn(title, "error", err)
	}
	out := p.Out
	if out == nil {
		out = color.Error
	}
	warn := color.New(color.FgYellow, color.Bold)
	_, _ = fmt.Fprintf(out, "%s %s\n", warn.Sprint(title+":"), err)
}
