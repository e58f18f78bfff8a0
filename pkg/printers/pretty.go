package printers

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/wayfinder/pkg/bus"
	"tableflip.dev/wayfinder/pkg/persist"
	"tableflip.dev/wayfinder/pkg/registry"
	"tableflip.dev/wayfinder/pkg/ribbon"
	"tableflip.dev/wayfinder/pkg/signs"
)

type PrettyPrint struct {
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = fmt.Fprintln(pp.out(), t.Sprint(title))
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = fmt.Fprint(pp.out(), f.Sprint(" none\n\n"))
}

func onOff(v bool) string {
	if v {
		return color.New(color.FgGreen).Sprint("on")
	}
	return color.New(color.Faint).Sprint("off")
}

// Snapshot prints the focused triple.
func (pp *PrettyPrint) Snapshot(s bus.Snapshot) {
	if !s.Focused() {
		f := color.New(color.Faint, color.Italic)
		_, _ = fmt.Fprintln(pp.out(), f.Sprint("no document focused"))
		return
	}
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(pp.out(), "%s  active:%s  debug:%s\n", bold.Sprint(s.Name), onOff(s.Active), onOff(s.Debug))
}

// Documents prints the registry, marking the focused document.
func (pp *PrettyPrint) Documents(states []registry.DocumentState, focused string) {
	pp.Title("Documents")
	if len(states) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("Document"), bold.Sprint("Active"), bold.Sprint("Debug"))
	for _, s := range states {
		marker := ""
		if s.Name == focused {
			marker = "*"
		}
		tbl.AddRow(marker, s.Name, onOff(s.Active), onOff(s.Debug))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Records prints the persisted settings.
func (pp *PrettyPrint) Records(path string, records []persist.Record) {
	pp.Title("Saved settings")
	if path != "" {
		f := color.New(color.Faint)
		_, _ = fmt.Fprintln(pp.out(), f.Sprint(path))
	}
	if len(records) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Document"), bold.Sprint("Enabled"))
	for _, r := range records {
		tbl.AddRow(r.Name, onOff(r.Active))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Panel prints the ribbon buttons and whether each is enabled.
func (pp *PrettyPrint) Panel(p *ribbon.Panel) {
	pp.Title(p.Name)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, b := range p.Buttons() {
		state := color.New(color.Faint).Sprint("disabled")
		if b.Enabled {
			state = color.New(color.FgGreen).Sprint("enabled")
		}
		tbl.AddRow(b.Name, state, b.ToolTip)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Signs prints a document's sign collection.
func (pp *PrettyPrint) Signs(c *signs.Collection) {
	pp.Title("Signs for " + c.Name())
	list := c.Signs()
	if len(list) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, s := range list {
		tbl.AddRow(fmt.Sprintf("#%d", s.Number), s.Room, onOff(s.Active))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")
}
