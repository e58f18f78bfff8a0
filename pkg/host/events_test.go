package host

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func newEvents() *Events {
	return NewEvents(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDispatchOrderAndErrors(t *testing.T) {
	ev := newEvents()
	var calls []string
	boom := errors.New("boom")

	ev.Add(DocumentFocused, func(name string) error {
		calls = append(calls, "first:"+name)
		return boom
	})
	ev.Add(DocumentFocused, func(name string) error {
		calls = append(calls, "second:"+name)
		return nil
	})
	ev.Add(DocumentClosed, func(name string) error {
		calls = append(calls, "closed:"+name)
		return nil
	})

	err := ev.Dispatch(Event{Kind: DocumentFocused, Name: "A.rvt"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(calls) != 2 || calls[0] != "first:A.rvt" || calls[1] != "second:A.rvt" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestFamilyDocumentsSkipped(t *testing.T) {
	ev := newEvents()
	called := false
	ev.Add(DocumentFocused, func(string) error {
		called = true
		return nil
	})

	for _, name := range []string{"Door.rfa", "WINDOW.RFA"} {
		if err := ev.Dispatch(Event{Kind: DocumentFocused, Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	if called {
		t.Fatal("family document reached a handler")
	}
	if !IsFamilyDocument("x.Rfa") || IsFamilyDocument("x.rvt") || IsFamilyDocument("rfa") {
		t.Fatal("IsFamilyDocument mismatch")
	}
}

func TestRemove(t *testing.T) {
	ev := newEvents()
	called := 0
	reg := ev.Add(DocumentOpened, func(string) error {
		called++
		return nil
	})

	if !ev.Remove(reg) {
		t.Fatal("first remove failed")
	}
	if ev.Remove(reg) {
		t.Fatal("second remove reported success")
	}
	ev.Dispatch(Event{Kind: DocumentOpened, Name: "A.rvt"})
	if called != 0 || ev.Len(DocumentOpened) != 0 {
		t.Fatalf("called = %d, len = %d", called, ev.Len(DocumentOpened))
	}
}

func TestRemoveDuringDispatch(t *testing.T) {
	ev := newEvents()
	var second Registration
	calls := 0
	ev.Add(DocumentClosed, func(string) error {
		ev.Remove(second)
		return nil
	})
	second = ev.Add(DocumentClosed, func(string) error {
		calls++
		return nil
	})

	ev.Dispatch(Event{Kind: DocumentClosed, Name: "A.rvt"})
	ev.Dispatch(Event{Kind: DocumentClosed, Name: "A.rvt"})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
