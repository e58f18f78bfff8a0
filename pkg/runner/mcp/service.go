// Package mcp serves a live WayFinder session over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/wayfinder/pkg/bus"
	"tableflip.dev/wayfinder/pkg/command"
	"tableflip.dev/wayfinder/pkg/host"
	"tableflip.dev/wayfinder/pkg/persist"
	"tableflip.dev/wayfinder/pkg/registry"
	"tableflip.dev/wayfinder/pkg/session"
	"tableflip.dev/wayfinder/pkg/signs"
)

// Service turns tool calls into host events and button presses. The session
// is single threaded, so calls are serialized.
type Service struct {
	mu      sync.Mutex
	Session *session.Session
}

// ErrNoSession is returned when the service has nothing to drive.
var ErrNoSession = errors.New("session is not configured")

// ButtonDTO is a ribbon button and whether it can be pressed.
type ButtonDTO struct {
	Name    string `json:"name"`
	Command string `json:"command"`
	Enabled bool   `json:"enabled"`
}

// StateDTO is everything a client needs to render the session.
type StateDTO struct {
	Focused   bus.Snapshot             `json:"focused"`
	Documents []registry.DocumentState `json:"documents"`
	Buttons   []ButtonDTO              `json:"buttons"`
	Signs     []signs.Sign             `json:"signs,omitempty"`
}

// SettingsDTO lists the saved per-document settings.
type SettingsDTO struct {
	Path     string           `json:"path,omitempty"`
	Working  bool             `json:"working"`
	Settings []persist.Record `json:"settings"`
}

// NewService wraps s.
func NewService(s *session.Session) *Service {
	return &Service{Session: s}
}

func (s *Service) lock() (*session.Session, func(), error) {
	if s.Session == nil {
		return nil, nil, ErrNoSession
	}
	s.mu.Lock()
	return s.Session, s.mu.Unlock, nil
}

// Event delivers one lifecycle event and returns the resulting state.
func (s *Service) Event(ctx context.Context, kind host.Kind, name string) (StateDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StateDTO{}, errors.New("document name is required")
	}
	sess, unlock, err := s.lock()
	if err != nil {
		return StateDTO{}, err
	}
	defer unlock()

	if err := sess.Events.Dispatch(host.Event{Kind: kind, Name: name}); err != nil {
		return StateDTO{}, err
	}
	return state(sess), nil
}

// Close sends closing then closed for name.
func (s *Service) Close(ctx context.Context, name string) (StateDTO, error) {
	if _, err := s.Event(ctx, host.DocumentClosing, name); err != nil {
		return StateDTO{}, err
	}
	return s.Event(ctx, host.DocumentClosed, name)
}

// Press invokes the ribbon command bound to cmd.
func (s *Service) Press(ctx context.Context, cmd string) (StateDTO, error) {
	sess, unlock, err := s.lock()
	if err != nil {
		return StateDTO{}, err
	}
	defer unlock()

	res := sess.Invoke(ctx, cmd)
	switch res.Status {
	case command.StatusFailed:
		return StateDTO{}, errors.New(res.Message)
	case command.StatusCancelled:
		return StateDTO{}, fmt.Errorf("%s cancelled", cmd)
	}
	return state(sess), nil
}

// AddSign adds a sign to the focused document.
func (s *Service) AddSign(ctx context.Context, room string) (signs.Sign, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return signs.Sign{}, errors.New("room is required")
	}
	sess, unlock, err := s.lock()
	if err != nil {
		return signs.Sign{}, err
	}
	defer unlock()
	return sess.Signs.AddSign(room)
}

// State returns the current session state.
func (s *Service) State(ctx context.Context) (StateDTO, error) {
	sess, unlock, err := s.lock()
	if err != nil {
		return StateDTO{}, err
	}
	defer unlock()
	return state(sess), nil
}

// Settings returns the saved settings.
func (s *Service) Settings(ctx context.Context) (SettingsDTO, error) {
	sess, unlock, err := s.lock()
	if err != nil {
		return SettingsDTO{}, err
	}
	defer unlock()
	return SettingsDTO{
		Path:     sess.Store.Path(),
		Working:  sess.Store.AppWorking(),
		Settings: sess.Store.Records(),
	}, nil
}

func state(sess *session.Session) StateDTO {
	dto := StateDTO{
		Focused:   sess.Bus.Snapshot(),
		Documents: sess.Registry.States(),
	}
	for _, b := range sess.Panel.Buttons() {
		dto.Buttons = append(dto.Buttons, ButtonDTO{Name: b.Name, Command: b.Command, Enabled: b.Enabled})
	}
	if c, err := sess.Signs.Focused(); err == nil {
		dto.Signs = c.Signs()
	}
	return dto
}

// ParseToggle maps a flag name onto its ribbon command.
func ParseToggle(flag string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "active", "enable", "":
		return command.NameToggleActive, nil
	case "debug":
		return command.NameToggleDebug, nil
	default:
		return "", fmt.Errorf("unknown flag %q (expected active or debug)", flag)
	}
}
