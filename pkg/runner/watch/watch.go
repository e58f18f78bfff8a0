// Package watch follows changes other sessions make to the settings file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/wayfinder/pkg/persist"
	"tableflip.dev/wayfinder/pkg/printers"
)

type Watch struct {
	Store *persist.Store
	Out   io.Writer
}

func (w *Watch) Do(ctx context.Context) error {
	if w.Store == nil {
		return errors.New("watch: no store")
	}
	out := w.Out
	if out == nil {
		out = color.Output
	}

	events, err := w.Store.Watch(ctx)
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: out}
	pp.Records(w.Store.Path(), w.Store.Records())

	faint := color.New(color.Faint)
	for ev := range events {
		switch ev.Type {
		case persist.EventReloaded:
			pp.Records("", w.Store.Records())
		case persist.EventReloadFailed:
			_, _ = fmt.Fprintln(out, color.New(color.FgYellow).Sprintf("reload failed: %v", ev.Err))
		default:
			_, _ = fmt.Fprintln(out, faint.Sprintf("%s: %s", ev.Type, ev.Path))
		}
	}
	return nil
}
