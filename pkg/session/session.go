// Package session owns every long-lived object of a host session and wires
// them together once at startup.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tableflip.dev/wayfinder/pkg/bus"
	"tableflip.dev/wayfinder/pkg/command"
	"tableflip.dev/wayfinder/pkg/diag"
	"tableflip.dev/wayfinder/pkg/focus"
	"tableflip.dev/wayfinder/pkg/host"
	"tableflip.dev/wayfinder/pkg/persist"
	"tableflip.dev/wayfinder/pkg/registry"
	"tableflip.dev/wayfinder/pkg/ribbon"
	"tableflip.dev/wayfinder/pkg/signs"
)

// PanelName is the ribbon panel title.
const PanelName = "WayFinder"

// Config holds the collaborators a session is built from.
type Config struct {
	Persist  persist.Config
	Prompter focus.Prompter
	Reporter diag.Reporter
	Logger   *slog.Logger
}

// Session is the single owner of the store, registry, bus and dependents.
type Session struct {
	Store      *persist.Store
	Bus        *bus.Bus
	Registry   *registry.Registry
	Controller *focus.Controller
	Events     *host.Events
	Panel      *ribbon.Panel
	Signs      *signs.Tracker

	commands map[string]command.Command
	report   diag.Reporter
	log      *slog.Logger
	started  bool
}

// New builds a session. A settings store that can not be opened is reported
// and the session runs without persistence.
func New(cfg Config) *Session {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	report := cfg.Reporter
	if report == nil {
		report = diag.Discard
	}

	store, err := persist.Open(cfg.Persist, persist.WithLogger(log))
	if err != nil {
		report.Report("WayFinder will run, but it won't be able to save your settings", err)
	}

	b := bus.New(log)
	reg := registry.New(b)
	ctrl := focus.New(reg, b, store, cfg.Prompter,
		focus.WithReporter(report),
		focus.WithLogger(log))

	s := &Session{
		Store:      store,
		Bus:        b,
		Registry:   reg,
		Controller: ctrl,
		Events:     host.NewEvents(log),
		Panel:      ribbon.NewPanel(PanelName, ribbon.DefaultButtons()),
		Signs:      signs.NewTracker(b, log),
		report:     report,
		log:        log,
	}
	s.commands = map[string]command.Command{
		command.NameToggleActive:   command.ToggleActive(ctrl),
		command.NameToggleDebug:    command.ToggleDebug(ctrl),
		command.NameUpdateSignInfo: command.UpdateSignInfo(s.Signs),
	}
	return s
}

// Start attaches the controller and dependents to the host callbacks.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.Controller.Start(s.Events)
	s.Signs.Start(s.Events)
	s.Panel.Attach(s.Controller)
	s.started = true
}

// Close detaches everything Start attached. Callers defer it right after
// Start so it runs on every exit path.
func (s *Session) Close() {
	if !s.started {
		return
	}
	s.Panel.Detach()
	s.Signs.Stop()
	s.Controller.Stop()
	s.started = false
}

// Command returns a built-in command by name.
func (s *Session) Command(name string) (command.Command, bool) {
	c, ok := s.commands[name]
	return c, ok
}

// Invoke presses the ribbon button bound to name. Disabled buttons do
// nothing and report a failure.
func (s *Session) Invoke(ctx context.Context, name string) command.Result {
	cmd, ok := s.commands[name]
	if !ok {
		res := command.Failed(fmt.Sprintf("unknown command %q", name))
		s.report.Report("Error", errors.New(res.Message))
		return res
	}
	if btn, ok := s.Panel.ByCommand(name); ok && !btn.Enabled {
		res := command.Failed(fmt.Sprintf("%q is disabled for this model", btn.Name))
		s.report.Report("Error", errors.New(res.Message))
		return res
	}
	return command.Dispatch(ctx, cmd, s.report)
}

// Step runs one script step: lifecycle events go to the host callbacks,
// commands go through Invoke.
func (s *Session) Step(ctx context.Context, step host.Step) error {
	if step.Event != nil {
		return s.Events.Dispatch(*step.Event)
	}

	switch step.Command {
	case "toggle":
		name := command.NameToggleActive
		switch step.Args[0] {
		case "active":
		case "debug":
			name = command.NameToggleDebug
		default:
			return fmt.Errorf("line %d: toggle takes active or debug, got %q", step.Line, step.Args[0])
		}
		return resultErr(s.Invoke(ctx, name))
	case "update-signs":
		return resultErr(s.Invoke(ctx, command.NameUpdateSignInfo))
	case "add-sign":
		if _, err := s.Signs.AddSign(step.Args[0]); err != nil {
			s.report.Report("Couldn't add sign", err)
			return err
		}
		return nil
	case "status":
		return nil
	default:
		return fmt.Errorf("line %d: unknown command %q", step.Line, step.Command)
	}
}

func resultErr(res command.Result) error {
	if res.Status == command.StatusFailed {
		return errors.New(res.Message)
	}
	return nil
}
