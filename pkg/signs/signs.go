// Package signs holds the per-document sign collections. A collection
// follows its own document's flags while that document is focused.
package signs

import (
	"fmt"
	"log/slog"

	"tableflip.dev/wayfinder/pkg/bus"
	"tableflip.dev/wayfinder/pkg/host"
	"tableflip.dev/wayfinder/pkg/registry"
)

// Sign is one wall sign in a document.
type Sign struct {
	Number int    `json:"number"`
	Room   string `json:"room"`
	Active bool   `json:"active"`
	Debug  bool   `json:"debug"`
}

// Subscriber is anything that hands out change subscriptions.
type Subscriber interface {
	Subscribe(bus.Handler) *bus.Subscription
}

// Collection is the set of signs of one document.
type Collection struct {
	name   string
	active bool
	debug  bool
	signs  []*Sign
	sub    *bus.Subscription
}

// NewCollection binds a collection to name and subscribes to src. If name is
// focused right now the collection picks up its state immediately.
func NewCollection(name string, src Subscriber) *Collection {
	c := &Collection{name: name}
	c.sub = src.Subscribe(c.apply)
	return c
}

func (c *Collection) apply(s bus.Snapshot) {
	if s.Name != c.name {
		return
	}
	c.active = s.Active
	c.debug = s.Debug
	c.propagate()
}

func (c *Collection) propagate() {
	for _, sign := range c.signs {
		sign.Active = c.active
		sign.Debug = c.debug
	}
}

// Name is the bound document.
func (c *Collection) Name() string { return c.name }

// Active is the last active flag seen for the bound document.
func (c *Collection) Active() bool { return c.active }

// Debug is the last debug flag seen for the bound document.
func (c *Collection) Debug() bool { return c.debug }

// Add creates a sign for room, numbered in order of creation.
func (c *Collection) Add(room string) Sign {
	s := &Sign{Number: len(c.signs) + 1, Room: room, Active: c.active, Debug: c.debug}
	c.signs = append(c.signs, s)
	return *s
}

// Signs returns copies of the collection's signs.
func (c *Collection) Signs() []Sign {
	out := make([]Sign, 0, len(c.signs))
	for _, s := range c.signs {
		out = append(out, *s)
	}
	return out
}

// Refresh pushes the current flags to every sign and returns how many signs
// were updated.
func (c *Collection) Refresh() int {
	c.propagate()
	return len(c.signs)
}

// Close releases the subscription. It is safe to call more than once.
func (c *Collection) Close() {
	if c.sub != nil {
		c.sub.Close()
		c.sub = nil
	}
}

// Closed reports whether Close was called.
func (c *Collection) Closed() bool { return c.sub == nil }

// Tracker creates a collection for every document the first time it is
// focused and disposes it when the document closes.
type Tracker struct {
	src     Subscriber
	docs    map[string]*Collection
	focused string
	sub     *bus.Subscription
	ev      *host.Events
	reg     host.Registration
	log     *slog.Logger
}

// NewTracker creates a tracker fed by src.
func NewTracker(src Subscriber, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{src: src, docs: make(map[string]*Collection), log: log}
}

// Start subscribes to changes and attaches to the host's closed callback.
func (t *Tracker) Start(ev *host.Events) {
	t.Stop()
	t.sub = t.src.Subscribe(t.onChange)
	t.ev = ev
	t.reg = ev.Add(host.DocumentClosed, t.onClosed)
}

// Stop detaches and disposes every collection.
func (t *Tracker) Stop() {
	if t.ev != nil {
		t.ev.Remove(t.reg)
		t.ev = nil
	}
	if t.sub != nil {
		t.sub.Close()
		t.sub = nil
	}
	for name, c := range t.docs {
		c.Close()
		delete(t.docs, name)
	}
	t.focused = ""
}

func (t *Tracker) onChange(s bus.Snapshot) {
	t.focused = s.Name
	if !s.Focused() {
		return
	}
	if _, ok := t.docs[s.Name]; !ok {
		t.docs[s.Name] = NewCollection(s.Name, t.src)
		t.log.Debug("sign collection created", "document", s.Name)
	}
}

func (t *Tracker) onClosed(name string) error {
	if c, ok := t.docs[name]; ok {
		c.Close()
		delete(t.docs, name)
		t.log.Debug("sign collection disposed", "document", name)
	}
	return nil
}

// Get returns the collection for name.
func (t *Tracker) Get(name string) (*Collection, bool) {
	c, ok := t.docs[name]
	return c, ok
}

// Len is the number of live collections.
func (t *Tracker) Len() int { return len(t.docs) }

// Focused returns the collection of the focused document.
func (t *Tracker) Focused() (*Collection, error) {
	if t.focused == "" {
		return nil, registry.ErrNoFocus
	}
	c, ok := t.docs[t.focused]
	if !ok {
		return nil, &registry.UnregisteredDocumentError{Name: t.focused}
	}
	return c, nil
}

// AddSign adds a sign for room to the focused document.
func (t *Tracker) AddSign(room string) (Sign, error) {
	c, err := t.Focused()
	if err != nil {
		return Sign{}, err
	}
	return c.Add(room), nil
}

// UpdateFocused refreshes the focused document's signs. Signs can only be
// updated while the app is enabled for the document.
func (t *Tracker) UpdateFocused() (int, error) {
	c, err := t.Focused()
	if err != nil {
		return 0, err
	}
	if !c.Active() {
		return 0, fmt.Errorf("signs: WayFinder is disabled for %q", c.Name())
	}
	return c.Refresh(), nil
}
