package persist

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a settings file change notification.
type EventType int

const (
	// EventReloaded indicates the settings file changed on disk and the
	// in-memory mapping was refreshed from it.
	EventReloaded EventType = iota

	// EventReloadFailed indicates the file changed but could not be parsed;
	// the previous mapping is still in effect.
	EventReloadFailed

	// EventRemoved indicates the settings file was deleted or moved away. The
	// next Save recreates it from memory.
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventReloaded:
		return "reloaded"
	case EventReloadFailed:
		return "reload-failed"
	case EventRemoved:
		return "removed"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is emitted by Store.Watch when the settings file changes.
type Event struct {
	Type EventType
	Path string
	Err  error
}

// Watch streams change events for the settings file until ctx is cancelled.
// Another session writing the same file shows up here. Callers should drain
// the returned channel; the channel is closed once ctx is done or the
// watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan Event, error) {
	if !s.AppWorking() {
		return nil, &UnavailableError{Op: "watch", Path: s.Path(), Err: s.Err()}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("persist: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				s.log.Warn("settings watcher close", "error", err)
			}
		})
	}

	if err := watcher.Add(s.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("persist: watch %s: %w", s.basePath, err)
	}

	target := filepath.Clean(s.Path())
	events := make(chan Event, 16)

	var sendMu sync.Mutex
	closed := false

	go func() {
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		// The throttle fires on its own timer, possibly after the loop exits.
		send := func(ev Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
				// Drop when the consumer is behind; the next change
				// reloads the whole file anyway.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Warn("settings watcher error", "error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}

				switch {
				case evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					throttle.Enqueue(EventRemoved, func(EventType) {
						send(Event{Type: EventRemoved, Path: target})
					})
				case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
					throttle.Enqueue(EventReloaded, func(EventType) {
						if err := s.Reload(); err != nil {
							send(Event{Type: EventReloadFailed, Path: target, Err: err})
							return
						}
						send(Event{Type: EventReloaded, Path: target})
					})
				}
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces bursts of filesystem notifications so a single
// write (which fsnotify may report several times) triggers one reload.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]func(EventType)
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]func(EventType)),
	}
}

func (t *eventThrottle) Enqueue(ev EventType, fire func(EventType)) {
	t.mu.Lock()
	t.pending[ev] = fire

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush() {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]func(EventType))
	t.timer = nil
	t.mu.Unlock()

	// Removal first so a remove+recreate burst ends on a reload.
	for _, ev := range []EventType{EventRemoved, EventReloadFailed, EventReloaded} {
		if fire, ok := pending[ev]; ok {
			fire(ev)
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
