// Package shell is an interactive host: each input line is a host event or
// a button press.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/wayfinder/pkg/host"
	"tableflip.dev/wayfinder/pkg/printers"
	"tableflip.dev/wayfinder/pkg/prompt"
	"tableflip.dev/wayfinder/pkg/session"
)

const help = `commands:
  open <doc>        document opened
  focus <doc>       view activated for <doc>
  closing <doc>     document about to close
  closed <doc>      document closed
  close <doc>       closing + closed
  toggle active     press "Enable / Disable"
  toggle debug      toggle debug mode
  add-sign <room>   add a sign to the focused document
  update-signs      press "Update Info"
  status            show the focused document
  docs              list open documents
  help              this text
  quit              leave the shell`

// Shell reads lines from In. It also answers the enable prompt from the
// same input so the two never compete for the terminal.
type Shell struct {
	In      io.Reader
	Out     io.Writer
	Session *session.Session

	scanner *bufio.Scanner
}

func (s *Shell) lines() *bufio.Scanner {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.In)
	}
	return s.scanner
}

func (s *Shell) out() io.Writer {
	if s.Out == nil {
		return color.Output
	}
	return s.Out
}

// ConfirmEnable implements focus.Prompter.
func (s *Shell) ConfirmEnable(name string) bool {
	_, _ = fmt.Fprintf(s.out(), prompt.Question+" [y/N] ", name)
	sc := s.lines()
	if !sc.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (s *Shell) Do(ctx context.Context) error {
	if s.Session == nil {
		return errors.New("shell: no session")
	}
	s.Session.Start()
	defer s.Session.Close()

	pp := printers.PrettyPrint{Out: s.out()}
	ps := color.New(color.FgCyan, color.Bold)
	sc := s.lines()
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		_, _ = fmt.Fprint(s.out(), ps.Sprint("wayfinder> "))
		if !sc.Scan() {
			_, _ = fmt.Fprintln(s.out(), "")
			return sc.Err()
		}
		n++
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "quit", "exit":
			return nil
		case "help", "?":
			_, _ = fmt.Fprintln(s.out(), help)
			continue
		case "docs":
			name, _ := s.Session.Registry.Focused()
			pp.Documents(s.Session.Registry.States(), name)
			continue
		}

		steps, ok, err := host.ParseLine(n, line)
		if err != nil {
			_, _ = fmt.Fprintln(s.out(), color.New(color.FgRed).Sprint(err))
			continue
		}
		if !ok {
			continue
		}
		for _, step := range steps {
			// Failures were already reported through the session.
			_ = s.Session.Step(ctx, step)
		}
		pp.Snapshot(s.Session.Bus.Snapshot())
	}
}
