// Package bus broadcasts the focused document's state to dependents.
//
// The bus remembers the last published Snapshot and replays it to every new
// subscriber, so a dependent created after a change sees the current state
// without waiting for the next one.
package bus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Snapshot is the (focused name, active, debug) triple. The zero value is
// the unfocused sentinel.
type Snapshot struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Debug  bool   `json:"debug"`
}

// Focused reports whether the snapshot names a document.
func (s Snapshot) Focused() bool {
	return s.Name != ""
}

// Handler receives snapshots. Handlers run synchronously on the publisher's
// goroutine, in subscription order.
type Handler func(Snapshot)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id      uuid.UUID
	handler Handler
	bus     *Bus
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() string {
	if s == nil {
		return ""
	}
	return s.id.String()
}

// Close is shorthand for Unsubscribe.
func (s *Subscription) Close() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s)
}

// Bus is a replay-last publish/subscribe channel.
type Bus struct {
	// mu guards subs and last only. Handlers run unlocked so they may
	// subscribe, unsubscribe or publish themselves.
	mu sync.Mutex

	subs []*Subscription
	last Snapshot
	// seq counts publishes. A dispatch stops once a handler has published
	// a newer snapshot, which was already delivered to every subscriber.
	seq uint64
	log *slog.Logger
}

// New creates a bus whose initial snapshot is the unfocused sentinel.
func New(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{log: log}
}

// Snapshot returns the most recently published value.
func (b *Bus) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Subscribe registers h and immediately calls it with the current snapshot.
func (b *Bus) Subscribe(h Handler) *Subscription {
	if h == nil {
		return nil
	}
	sub := &Subscription{id: uuid.New(), handler: h, bus: b}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	last := b.last
	b.mu.Unlock()

	b.deliver(sub, last)
	return sub
}

// Unsubscribe removes sub. Removing an unknown or already removed
// subscription is a no-op. It is safe to call from inside a handler.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len is the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish stores the snapshot and calls every handler registered at the
// time of the call. A panicking handler is logged and skipped.
func (b *Bus) Publish(name string, active, debug bool) {
	b.PublishSnapshot(Snapshot{Name: name, Active: active, Debug: debug})
}

// PublishSnapshot is Publish for a prepared Snapshot. A handler that
// publishes during delivery supersedes snap: handlers not yet called see only
// the newer snapshot.
func (b *Bus) PublishSnapshot(snap Snapshot) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.last = snap
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		current, live := b.check(sub, seq)
		if !current {
			return
		}
		if !live {
			continue
		}
		b.deliver(sub, snap)
	}
}

// check reports whether seq is still the latest publish and whether sub is
// still registered; a handler earlier in the same dispatch may have removed
// it or published again.
func (b *Bus) check(sub *Subscription, seq uint64) (current, live bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq != seq {
		return false, false
	}
	for _, s := range b.subs {
		if s == sub {
			return true, true
		}
	}
	return true, false
}

func (b *Bus) deliver(sub *Subscription, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("change handler failed",
				"subscription", sub.ID(),
				"document", snap.Name,
				"panic", fmt.Sprint(r))
		}
	}()
	sub.handler(snap)
}
