package registry

import (
	"errors"
	"testing"

	"tableflip.dev/wayfinder/pkg/bus"
)

type recorder struct {
	got []bus.Snapshot
}

func (r *recorder) PublishSnapshot(s bus.Snapshot) {
	r.got = append(r.got, s)
}

func (r *recorder) last() bus.Snapshot {
	if len(r.got) == 0 {
		return bus.Snapshot{Name: "<none>"}
	}
	return r.got[len(r.got)-1]
}

func TestFocusSwitchPreservesState(t *testing.T) {
	rec := &recorder{}
	r := New(rec)

	if err := r.OpenOrFocus("A.rvt", true, false); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ToggleDebug(); err != nil {
		t.Fatal(err)
	}
	if err := r.OpenOrFocus("B.rvt", false, false); err != nil {
		t.Fatal(err)
	}
	// Seeds are ignored for a known document.
	if err := r.OpenOrFocus("A.rvt", false, false); err != nil {
		t.Fatal(err)
	}

	want := bus.Snapshot{Name: "A.rvt", Active: true, Debug: true}
	if got := rec.last(); got != want {
		t.Fatalf("last emission = %v, want %v", got, want)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}

func TestEveryFocusEmits(t *testing.T) {
	rec := &recorder{}
	r := New(rec)

	r.OpenOrFocus("A.rvt", false, false)
	r.OpenOrFocus("A.rvt", false, false)
	if err := r.Refocus("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if len(rec.got) != 3 {
		t.Fatalf("emissions = %d, want 3", len(rec.got))
	}
}

func TestOpenOrFocusBlankName(t *testing.T) {
	rec := &recorder{}
	r := New(rec)
	for _, name := range []string{"", " ", "\t\n"} {
		if err := r.OpenOrFocus(name, true, false); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("OpenOrFocus(%q) err = %v, want ErrEmptyName", name, err)
		}
	}
	if r.Len() != 0 || len(rec.got) != 0 {
		t.Fatalf("blank name registered: len=%d emissions=%d", r.Len(), len(rec.got))
	}
}

func TestRefocusUnknown(t *testing.T) {
	rec := &recorder{}
	r := New(rec)
	r.OpenOrFocus("A.rvt", true, false)

	err := r.Refocus("X.rvt")
	if !IsUnregistered(err) {
		t.Fatalf("err = %v, want unregistered", err)
	}
	var ue *UnregisteredDocumentError
	if !errors.As(err, &ue) || ue.Name != "X.rvt" {
		t.Fatalf("err = %#v", err)
	}
	if name, _ := r.Focused(); name != "A.rvt" {
		t.Fatalf("focus moved to %q", name)
	}
	if len(rec.got) != 1 {
		t.Fatalf("emissions = %d, want 1", len(rec.got))
	}
}

func TestRemoveFocused(t *testing.T) {
	rec := &recorder{}
	r := New(rec)
	r.OpenOrFocus("A.rvt", true, false)

	state, ok := r.Remove("A.rvt")
	if !ok || state.Name != "A.rvt" || !state.Active {
		t.Fatalf("Remove = %v, %v", state, ok)
	}
	if _, ok := r.Focused(); ok {
		t.Fatal("focus not cleared")
	}
	if got := rec.last(); got != (bus.Snapshot{}) {
		t.Fatalf("last emission = %v, want the unfocused sentinel", got)
	}

	if _, err := r.Active(); !errors.Is(err, ErrNoFocus) {
		t.Fatalf("Active() err = %v, want ErrNoFocus", err)
	}
	if _, err := r.ToggleDebug(); !errors.Is(err, ErrNoFocus) {
		t.Fatalf("ToggleDebug() err = %v, want ErrNoFocus", err)
	}
}

func TestRemoveBackgroundDocument(t *testing.T) {
	rec := &recorder{}
	r := New(rec)
	r.OpenOrFocus("A.rvt", false, false)
	r.OpenOrFocus("B.rvt", true, false)
	n := len(rec.got)

	if _, ok := r.Remove("A.rvt"); !ok {
		t.Fatal("A.rvt not removed")
	}
	if name, _ := r.Focused(); name != "B.rvt" {
		t.Fatalf("focus = %q, want B.rvt", name)
	}
	if len(rec.got) != n {
		t.Fatal("removing a background document emitted")
	}
	if _, ok := r.Remove("A.rvt"); ok {
		t.Fatal("second remove reported success")
	}
}

func TestSettersAndToggles(t *testing.T) {
	rec := &recorder{}
	r := New(rec)
	r.OpenOrFocus("A.rvt", false, false)

	v, err := r.ToggleActive()
	if err != nil || !v {
		t.Fatalf("ToggleActive = %v, %v", v, err)
	}
	if err := r.SetDebug(true); err != nil {
		t.Fatal(err)
	}
	want := bus.Snapshot{Name: "A.rvt", Active: true, Debug: true}
	if got := rec.last(); got != want {
		t.Fatalf("last emission = %v, want %v", got, want)
	}

	if err := r.SetActive(false); err != nil {
		t.Fatal(err)
	}
	if a, _ := r.Active(); a {
		t.Fatal("Active() still true")
	}
	if d, _ := r.Debug(); !d {
		t.Fatal("Debug() lost")
	}
}

func TestStatesSorted(t *testing.T) {
	r := New(nil)
	r.OpenOrFocus("C.rvt", false, false)
	r.OpenOrFocus("A.rvt", true, false)
	r.OpenOrFocus("B.rvt", false, false)

	states := r.States()
	if len(states) != 3 || states[0].Name != "A.rvt" || states[2].Name != "C.rvt" {
		t.Fatalf("States() = %v", states)
	}
	if !r.Has("B.rvt") || r.Has("D.rvt") {
		t.Fatal("Has mismatch")
	}
}
