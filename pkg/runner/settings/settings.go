// Package settings inspects and edits the saved per-document settings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/wayfinder/pkg/commands/options"
	"tableflip.dev/wayfinder/pkg/persist"
	"tableflip.dev/wayfinder/pkg/printers"
)

type Action string

const (
	List   Action = "list"
	Set    Action = "set"
	Forget Action = "forget"
)

type Settings struct {
	Action Action
	Name   string
	Active bool

	Store *persist.Store
	Out   io.Writer
	// Output switches to JSON when its JSON flag is set.
	Output *options.OutputOptions
}

func (s *Settings) Do(ctx context.Context) error {
	if s.Store == nil {
		return errors.New("settings: no store")
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}
	if !s.Store.AppWorking() {
		return s.Store.Err()
	}

	switch s.Action {
	case Set:
		if err := s.Store.Save(s.Name, s.Active); err != nil {
			return err
		}
	case Forget:
		if err := s.Store.Forget(s.Name); err != nil {
			return err
		}
	case List, "":
	default:
		return fmt.Errorf("settings: unknown action %q", s.Action)
	}

	records := s.Store.Records()
	if s.Output != nil && s.Output.JSON {
		return s.Output.WriteJSON(records)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Records(s.Store.Path(), records)
	return nil
}
