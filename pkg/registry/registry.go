// Package registry tracks the open documents of a host session, their flags
// and the single focused document.
//
// A Registry is not safe for concurrent use. The host delivers lifecycle
// events one at a time and every mutation happens on that turn.
package registry

import (
	"sort"
	"strings"

	"tableflip.dev/wayfinder/pkg/bus"
)

// DocumentState is the per-document record.
type DocumentState struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Debug  bool   `json:"debug"`
}

// Snapshot converts the state to a bus snapshot.
func (s DocumentState) Snapshot() bus.Snapshot {
	return bus.Snapshot{Name: s.Name, Active: s.Active, Debug: s.Debug}
}

// Publisher receives the focused document's state after every change.
type Publisher interface {
	PublishSnapshot(bus.Snapshot)
}

// Registry is the single source of truth for which documents are known.
type Registry struct {
	docs    map[string]*DocumentState
	focused string
	pub     Publisher
}

// New creates an empty registry that emits through pub. A nil pub drops
// notifications.
func New(pub Publisher) *Registry {
	return &Registry{
		docs: make(map[string]*DocumentState),
		pub:  pub,
	}
}

// OpenOrFocus registers name when unknown, seeded with the given flags, and
// focuses it. Seeds are ignored for a known document. It always emits, since
// a focus change is itself a notifiable event.
func (r *Registry) OpenOrFocus(name string, activeSeed, debugSeed bool) error {
	if !ValidName(name) {
		return ErrEmptyName
	}
	doc, ok := r.docs[name]
	if !ok {
		doc = &DocumentState{Name: name, Active: activeSeed, Debug: debugSeed}
		r.docs[name] = doc
	}
	r.focused = name
	r.emit(doc)
	return nil
}

// ValidName reports whether name can identify a document. Blank names can
// not be saved, so they are never registered.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != ""
}

// Refocus moves focus to a known document and re-emits its state. Focus is
// left untouched when name is unknown.
func (r *Registry) Refocus(name string) error {
	doc, ok := r.docs[name]
	if !ok {
		return &UnregisteredDocumentError{Name: name}
	}
	r.focused = name
	r.emit(doc)
	return nil
}

// Remove deletes name and returns the removed state. Removing the focused
// document clears focus and emits the unfocused sentinel; removing a
// background document is silent.
func (r *Registry) Remove(name string) (DocumentState, bool) {
	doc, ok := r.docs[name]
	if !ok {
		return DocumentState{}, false
	}
	delete(r.docs, name)
	if r.focused == name {
		r.focused = ""
		r.publish(bus.Snapshot{})
	}
	return *doc, true
}

// Focused returns the focused document name.
func (r *Registry) Focused() (string, bool) {
	return r.focused, r.focused != ""
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.docs[name]
	return ok
}

// State returns a copy of the state for name.
func (r *Registry) State(name string) (DocumentState, bool) {
	doc, ok := r.docs[name]
	if !ok {
		return DocumentState{}, false
	}
	return *doc, true
}

// States lists every registered document sorted by name.
func (r *Registry) States() []DocumentState {
	list := make([]DocumentState, 0, len(r.docs))
	for _, doc := range r.docs {
		list = append(list, *doc)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Len is the number of registered documents.
func (r *Registry) Len() int {
	return len(r.docs)
}

// current resolves the focused document.
func (r *Registry) current() (*DocumentState, error) {
	if r.focused == "" {
		return nil, ErrNoFocus
	}
	doc, ok := r.docs[r.focused]
	if !ok {
		return nil, &UnregisteredDocumentError{Name: r.focused}
	}
	return doc, nil
}

// Active returns the focused document's active flag.
func (r *Registry) Active() (bool, error) {
	doc, err := r.current()
	if err != nil {
		return false, err
	}
	return doc.Active, nil
}

// Debug returns the focused document's debug flag.
func (r *Registry) Debug() (bool, error) {
	doc, err := r.current()
	if err != nil {
		return false, err
	}
	return doc.Debug, nil
}

// SetActive sets the focused document's active flag and emits.
func (r *Registry) SetActive(active bool) error {
	doc, err := r.current()
	if err != nil {
		return err
	}
	doc.Active = active
	r.emit(doc)
	return nil
}

// SetDebug sets the focused document's debug flag and emits.
func (r *Registry) SetDebug(debug bool) error {
	doc, err := r.current()
	if err != nil {
		return err
	}
	doc.Debug = debug
	r.emit(doc)
	return nil
}

// ToggleActive flips the focused document's active flag and returns the
// new value.
func (r *Registry) ToggleActive() (bool, error) {
	doc, err := r.current()
	if err != nil {
		return false, err
	}
	doc.Active = !doc.Active
	r.emit(doc)
	return doc.Active, nil
}

// ToggleDebug flips the focused document's debug flag and returns the new
// value.
func (r *Registry) ToggleDebug() (bool, error) {
	doc, err := r.current()
	if err != nil {
		return false, err
	}
	doc.Debug = !doc.Debug
	r.emit(doc)
	return doc.Debug, nil
}

func (r *Registry) emit(doc *DocumentState) {
	r.publish(doc.Snapshot())
}

func (r *Registry) publish(snap bus.Snapshot) {
	if r.pub == nil {
		return
	}
	r.pub.PublishSnapshot(snap)
}
