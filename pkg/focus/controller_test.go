package focus

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"tableflip.dev/wayfinder/pkg/bus"
	"tableflip.dev/wayfinder/pkg/host"
	"tableflip.dev/wayfinder/pkg/registry"
)

type memStore struct {
	projects map[string]bool
	disabled bool
	failSave error
	saves    int
}

func newMemStore() *memStore {
	return &memStore{projects: map[string]bool{}}
}

func (m *memStore) Get(name string) (bool, bool) {
	if m.disabled {
		return false, false
	}
	v, ok := m.projects[name]
	return v, ok
}

func (m *memStore) Save(name string, active bool) error {
	m.saves++
	if m.failSave != nil {
		return m.failSave
	}
	m.projects[name] = active
	return nil
}

func (m *memStore) AppWorking() bool { return !m.disabled }

type reports struct {
	titles []string
}

func (r *reports) Report(title string, err error) {
	r.titles = append(r.titles, title)
}

type fixture struct {
	ctrl    *Controller
	bus     *bus.Bus
	reg     *registry.Registry
	store   *memStore
	answers map[string]bool
	asked   []string
	reports *reports
	seen    []bus.Snapshot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		store:   newMemStore(),
		answers: map[string]bool{},
		reports: &reports{},
	}
	f.bus = bus.New(log)
	f.reg = registry.New(f.bus)
	prompt := PromptFunc(func(name string) bool {
		f.asked = append(f.asked, name)
		return f.answers[name]
	})
	f.ctrl = New(f.reg, f.bus, f.store, prompt, WithReporter(f.reports), WithLogger(log))
	f.ctrl.Subscribe(func(s bus.Snapshot) { f.seen = append(f.seen, s) })
	return f
}

func (f *fixture) last() bus.Snapshot {
	return f.seen[len(f.seen)-1]
}

func TestFocusLifecycle(t *testing.T) {
	f := newFixture(t)
	f.answers["A.rvt"] = true
	f.store.projects["B.rvt"] = false

	if err := f.ctrl.DocumentOpened("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if f.reg.Len() != 0 {
		t.Fatal("opening must not register")
	}

	if err := f.ctrl.DocumentFocused("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if got, want := f.last(), (bus.Snapshot{Name: "A.rvt", Active: true}); got != want {
		t.Fatalf("after focus A: %v, want %v", got, want)
	}
	if v, ok := f.store.projects["A.rvt"]; !ok || !v {
		t.Fatal("prompt answer not saved")
	}

	if _, err := f.ctrl.ToggleDebug(); err != nil {
		t.Fatal(err)
	}
	if got, want := f.last(), (bus.Snapshot{Name: "A.rvt", Active: true, Debug: true}); got != want {
		t.Fatalf("after debug toggle: %v, want %v", got, want)
	}

	if err := f.ctrl.DocumentFocused("B.rvt"); err != nil {
		t.Fatal(err)
	}
	if got, want := f.last(), (bus.Snapshot{Name: "B.rvt"}); got != want {
		t.Fatalf("after focus B: %v, want %v", got, want)
	}
	if len(f.asked) != 1 || f.asked[0] != "A.rvt" {
		t.Fatalf("asked = %v, want only A.rvt", f.asked)
	}

	if err := f.ctrl.DocumentFocused("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if got, want := f.last(), (bus.Snapshot{Name: "A.rvt", Active: true, Debug: true}); got != want {
		t.Fatalf("after refocus A: %v, want %v", got, want)
	}

	if err := f.ctrl.DocumentClosing("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if err := f.ctrl.DocumentClosed("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if got := f.last(); got != (bus.Snapshot{}) {
		t.Fatalf("after close A: %v, want unfocused", got)
	}
	if v := f.store.projects["A.rvt"]; !v {
		t.Fatal("closing lost A.rvt's active flag")
	}
	if !f.reg.Has("B.rvt") {
		t.Fatal("B.rvt must stay registered")
	}
	if len(f.reports.titles) != 0 {
		t.Fatalf("unexpected reports %v", f.reports.titles)
	}
}

func TestClosingSavesClosingDocument(t *testing.T) {
	f := newFixture(t)
	f.store.projects["A.rvt"] = false
	f.store.projects["B.rvt"] = false

	f.ctrl.DocumentFocused("A.rvt")
	f.ctrl.ToggleActive()
	f.ctrl.DocumentFocused("B.rvt")

	// A closes in the background while B is focused.
	if err := f.ctrl.DocumentClosing("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if !f.store.projects["A.rvt"] {
		t.Fatal("A.rvt's own flag was not saved")
	}
	if f.store.projects["B.rvt"] {
		t.Fatal("focused document's flag was saved instead")
	}

	n := len(f.seen)
	if err := f.ctrl.DocumentClosed(""); err != nil {
		t.Fatal(err)
	}
	if f.reg.Has("A.rvt") {
		t.Fatal("A.rvt still registered")
	}
	if len(f.seen) != n {
		t.Fatal("closing a background document emitted")
	}
	if name, _ := f.reg.Focused(); name != "B.rvt" {
		t.Fatalf("focus = %q, want B.rvt", name)
	}
}

func TestDebugNeverSaved(t *testing.T) {
	f := newFixture(t)
	f.store.projects["A.rvt"] = false

	f.ctrl.DocumentFocused("A.rvt")
	f.ctrl.ToggleDebug()
	f.ctrl.DocumentClosing("A.rvt")
	f.ctrl.DocumentClosed("A.rvt")

	if f.store.projects["A.rvt"] {
		t.Fatal("debug leaked into the saved active flag")
	}
	f.ctrl.DocumentFocused("A.rvt")
	if f.last().Debug {
		t.Fatal("debug restored after reopen")
	}
}

func TestDisabledStoreStillTracks(t *testing.T) {
	f := newFixture(t)
	f.store.disabled = true
	f.answers["A.rvt"] = true

	if err := f.ctrl.DocumentFocused("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if !f.ctrl.FocusedActive() {
		t.Fatal("prompt answer not applied")
	}
	f.ctrl.DocumentClosing("A.rvt")
	if f.store.saves != 0 {
		t.Fatalf("saves = %d on a disabled store", f.store.saves)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.store.failSave = errors.New("disk full")
	f.answers["A.rvt"] = true

	if err := f.ctrl.DocumentFocused("A.rvt"); err != nil {
		t.Fatalf("focus must survive a failed save: %v", err)
	}
	if !f.ctrl.FocusedActive() {
		t.Fatal("state not registered")
	}
	if len(f.reports.titles) != 1 {
		t.Fatalf("reports = %v", f.reports.titles)
	}
	if err := f.ctrl.DocumentClosing("A.rvt"); err == nil {
		t.Fatal("expected closing save failure")
	}
}

func TestUnregisteredCallbacks(t *testing.T) {
	f := newFixture(t)

	if f.ctrl.FocusedActive() || f.ctrl.FocusedDebug() {
		t.Fatal("expected false with nothing focused")
	}
	if _, err := f.ctrl.ToggleActive(); !errors.Is(err, registry.ErrNoFocus) {
		t.Fatalf("ToggleActive err = %v", err)
	}
	if err := f.ctrl.DocumentClosing("X.rvt"); !registry.IsUnregistered(err) {
		t.Fatalf("DocumentClosing err = %v", err)
	}
	if err := f.ctrl.DocumentClosed("X.rvt"); !registry.IsUnregistered(err) {
		t.Fatalf("DocumentClosed err = %v", err)
	}
	if err := f.ctrl.DocumentFocused(""); !errors.Is(err, registry.ErrEmptyName) {
		t.Fatalf("DocumentFocused err = %v", err)
	}
	// FocusedActive, FocusedDebug, closing, closed and focused each report.
	if len(f.reports.titles) != 5 {
		t.Fatalf("reports = %v", f.reports.titles)
	}
}

func TestStartStop(t *testing.T) {
	f := newFixture(t)
	ev := host.NewEvents(slog.New(slog.NewTextHandler(io.Discard, nil)))

	f.ctrl.Start(ev)
	f.ctrl.Start(ev)
	for _, k := range []host.Kind{host.DocumentOpened, host.DocumentFocused, host.DocumentClosing, host.DocumentClosed} {
		if ev.Len(k) != 1 {
			t.Fatalf("%s handlers = %d, want 1", k, ev.Len(k))
		}
	}

	if err := ev.Dispatch(host.Event{Kind: host.DocumentFocused, Name: "A.rvt"}); err != nil {
		t.Fatal(err)
	}
	if err := ev.Dispatch(host.Event{Kind: host.DocumentFocused, Name: "Door.rfa"}); err != nil {
		t.Fatal(err)
	}
	if f.reg.Len() != 1 {
		t.Fatalf("registered %d documents, want 1", f.reg.Len())
	}

	f.ctrl.Stop()
	f.ctrl.Stop()
	if ev.Len(host.DocumentFocused) != 0 {
		t.Fatal("handlers left attached")
	}
	ev.Dispatch(host.Event{Kind: host.DocumentFocused, Name: "B.rvt"})
	if f.reg.Has("B.rvt") {
		t.Fatal("stopped controller still handled events")
	}
}

func TestNilOptionsKeepDefaults(t *testing.T) {
	reg := registry.New(nil)
	c := New(reg, bus.New(nil), newMemStore(), nil, WithReporter(nil))
	if c.report == nil {
		t.Fatal("nil reporter replaced the default")
	}
	if err := c.DocumentFocused("A.rvt"); err != nil {
		t.Fatal(err)
	}
	if st, _ := c.Focused(); st.Active {
		t.Fatal("no prompter must seed false")
	}
}

func TestBlankNameIsRejectedBeforePrompt(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.DocumentFocused("  "); !errors.Is(err, registry.ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
	if f.reg.Len() != 0 {
		t.Fatal("blank name registered")
	}
	if len(f.asked) != 0 || f.store.saves != 0 {
		t.Fatalf("asked = %v, saves = %d", f.asked, f.store.saves)
	}
	if len(f.reports.titles) != 1 || f.reports.titles[0] != "Document not registered" {
		t.Fatalf("reports = %v", f.reports.titles)
	}
}
