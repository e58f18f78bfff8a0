// Package replay drives a session from a host script.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/wayfinder/pkg/host"
	"tableflip.dev/wayfinder/pkg/printers"
	"tableflip.dev/wayfinder/pkg/session"
)

// Replay feeds every step of Script to Session in order.
type Replay struct {
	Script  io.Reader
	Session *session.Session
	Out     io.Writer

	// Strict stops at the first failing step.
	Strict bool
	// Quiet suppresses the per-step echo.
	Quiet bool
}

func (r *Replay) Do(ctx context.Context) error {
	if r.Session == nil {
		return errors.New("replay: no session")
	}
	steps, err := host.ParseScript(r.Script)
	if err != nil {
		return err
	}

	out := r.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{Out: out}
	echo := color.New(color.Faint)

	r.Session.Start()
	defer r.Session.Close()

	failed := 0
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.Quiet {
			_, _ = fmt.Fprintln(pp.Out, echo.Sprintf("%3d  %s", step.Line, step))
		}
		if err := r.Session.Step(ctx, step); err != nil {
			failed++
			if r.Strict {
				return fmt.Errorf("line %d: %w", step.Line, err)
			}
			continue
		}
		if step.Command == "status" {
			pp.Snapshot(r.Session.Bus.Snapshot())
		}
	}

	_, _ = fmt.Fprintln(pp.Out, "")
	pp.Snapshot(r.Session.Bus.Snapshot())
	_, _ = fmt.Fprintln(pp.Out, "")
	name, _ := r.Session.Registry.Focused()
	pp.Documents(r.Session.Registry.States(), name)
	pp.Panel(r.Session.Panel)
	if c, err := r.Session.Signs.Focused(); err == nil {
		pp.Signs(c)
	}

	if failed > 0 {
		_, _ = fmt.Fprintln(pp.Out, color.New(color.FgYellow).Sprintf("%d step(s) failed", failed))
	}
	return nil
}
