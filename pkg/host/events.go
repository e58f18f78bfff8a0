// Package host models the host application's lifecycle callbacks.
//
// Handlers attach with Add and detach with Remove; Events delivers one event
// at a time, the way the host application does.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Kind is a document lifecycle event kind.
type Kind int

const (
	DocumentOpened Kind = iota
	DocumentFocused
	DocumentClosing
	DocumentClosed
)

func (k Kind) String() string {
	switch k {
	case DocumentOpened:
		return "opened"
	case DocumentFocused:
		return "focused"
	case DocumentClosing:
		return "closing"
	case DocumentClosed:
		return "closed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FamilyExt marks family documents. They never take part in focus tracking.
const FamilyExt = ".rfa"

// IsFamilyDocument reports whether name is a family document.
func IsFamilyDocument(name string) bool {
	return strings.EqualFold(filepath.Ext(name), FamilyExt)
}

// Event is one lifecycle callback.
type Event struct {
	Kind Kind
	Name string
}

func (e Event) String() string {
	return fmt.Sprintf("%s %q", e.Kind, e.Name)
}

// Handler reacts to a lifecycle event for the named document.
type Handler func(name string) error

// Registration identifies an attached handler.
type Registration struct {
	kind Kind
	id   uint64
}

type entry struct {
	id uint64
	h  Handler
}

// Events is the host's callback registry.
type Events struct {
	handlers map[Kind][]entry
	next     uint64
	log      *slog.Logger
}

// NewEvents creates an empty registry.
func NewEvents(log *slog.Logger) *Events {
	if log == nil {
		log = slog.Default()
	}
	return &Events{
		handlers: make(map[Kind][]entry),
		log:      log,
	}
}

// Add attaches h for kind. Handlers run in the order they were added.
func (e *Events) Add(kind Kind, h Handler) Registration {
	e.next++
	e.handlers[kind] = append(e.handlers[kind], entry{id: e.next, h: h})
	return Registration{kind: kind, id: e.next}
}

// Remove detaches a handler. It reports false when reg was not attached.
func (e *Events) Remove(reg Registration) bool {
	list := e.handlers[reg.kind]
	for i, en := range list {
		if en.id == reg.id {
			e.handlers[reg.kind] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Len is the number of attached handlers for kind.
func (e *Events) Len(kind Kind) int {
	return len(e.handlers[kind])
}

// Dispatch delivers ev to every handler attached for its kind. Family
// documents are skipped. Every handler runs even when an earlier one fails;
// the failures are joined.
func (e *Events) Dispatch(ev Event) error {
	if IsFamilyDocument(ev.Name) {
		e.log.Debug("skipping family document", "event", ev.Kind.String(), "document", ev.Name)
		return nil
	}
	e.log.Debug("host event", "event", ev.Kind.String(), "document", ev.Name)

	list := make([]entry, len(e.handlers[ev.Kind]))
	copy(list, e.handlers[ev.Kind])

	var errs []error
	for _, en := range list {
		if err := en.h(ev.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
