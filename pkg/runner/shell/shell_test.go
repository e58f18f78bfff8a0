package shell

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/wayfinder/pkg/persist"
	"tableflip.dev/wayfinder/pkg/session"
)

func TestShellAnswersPromptFromInput(t *testing.T) {
	color.NoColor = true
	out := new(bytes.Buffer)
	sh := &Shell{
		In: strings.NewReader(`help
focus A.rvt
yes
focus B.rvt
n
bogus
docs
quit
focus C.rvt
`),
		Out: out,
	}
	sh.Session = session.New(session.Config{
		Persist:  &persist.FileConfig{Path: t.TempDir()},
		Prompter: sh,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	if err := sh.Do(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{
		"Would you like to enable WayFinder for A.rvt?",
		"A.rvt  active:on  debug:off",
		"B.rvt  active:off  debug:off",
		`unknown step "bogus"`,
		"Documents",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if sh.Session.Registry.Has("C.rvt") {
		t.Error("input after quit was processed")
	}
	if v, ok := sh.Session.Store.Get("A.rvt"); !ok || !v {
		t.Errorf("A.rvt saved = %v, %v", v, ok)
	}
}

func TestShellEOF(t *testing.T) {
	color.NoColor = true
	sh := &Shell{In: strings.NewReader("focus A.rvt\n"), Out: new(bytes.Buffer)}
	sh.Session = session.New(session.Config{
		Persist:  &persist.FileConfig{Path: t.TempDir()},
		Prompter: sh,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := sh.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	// The prompt hit EOF and answered no.
	if st, ok := sh.Session.Controller.Focused(); !ok || st.Active {
		t.Fatalf("focused = %+v, %v", st, ok)
	}
}
