package persist

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatchReloadsExternalChanges(t *testing.T) {
	s, _ := openTemp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to start before writing.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(s.Path(), []byte(`{"projects":{"Shared.rvt":true}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				t.Fatal("channel closed early")
			}
			if evt.Type != EventReloaded {
				continue
			}
			if v, ok := s.Get("Shared.rvt"); !ok || !v {
				t.Fatalf("Get(Shared.rvt) = %v, %v after reload", v, ok)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for reload event")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	s, _ := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()

	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchDisabledStore(t *testing.T) {
	s, _ := Open(nil)
	if _, err := s.Watch(context.Background()); err == nil {
		t.Fatal("expected error watching a disabled store")
	}
}
