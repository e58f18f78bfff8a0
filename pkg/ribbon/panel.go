// Package ribbon keeps the enabled state of the app's ribbon buttons in step
// with the focused document.
package ribbon

import (
	"tableflip.dev/wayfinder/pkg/bus"
	"tableflip.dev/wayfinder/pkg/command"
)

// ToggleButton is never disabled; it is how the user turns the app back on.
const ToggleButton = "Enable / Disable"

// Button describes one ribbon button.
type Button struct {
	Name    string
	Text    string
	Command string
	ToolTip string
	Icon    string
	Enabled bool
}

// DefaultButtons is the app's ribbon panel.
func DefaultButtons() []Button {
	return []Button{
		{
			Name:    ToggleButton,
			Text:    "Enable or Disable WayFinder",
			Command: command.NameToggleActive,
			ToolTip: "Enable or Disable WayFinder",
			Icon:    "updateSign_32.png",
		},
		{
			Name:    "Update Info",
			Text:    "Update Info for Sign(s)",
			Command: command.NameUpdateSignInfo,
			ToolTip: "Update sign(s) info",
			Icon:    "updateSign_32.png",
		},
		{
			Name:    "Debug",
			Text:    "Toggle debug mode",
			Command: command.NameToggleDebug,
			ToolTip: "Show diagnostic info for this model",
			Icon:    "updateSign_32.png",
		},
	}
}

// Subscriber is anything that hands out change subscriptions.
type Subscriber interface {
	Subscribe(bus.Handler) *bus.Subscription
}

// Panel is a headless ribbon panel.
type Panel struct {
	Name    string
	buttons []Button
	sub     *bus.Subscription
}

// NewPanel creates a panel with every button disabled except ToggleButton.
func NewPanel(name string, buttons []Button) *Panel {
	p := &Panel{Name: name, buttons: make([]Button, len(buttons))}
	copy(p.buttons, buttons)
	p.SetActive(false)
	return p
}

// Attach follows the focused document's active flag. The panel is updated
// immediately from the current state.
func (p *Panel) Attach(src Subscriber) {
	p.Detach()
	p.sub = src.Subscribe(func(s bus.Snapshot) {
		p.SetActive(s.Focused() && s.Active)
	})
}

// Detach stops following changes.
func (p *Panel) Detach() {
	if p.sub != nil {
		p.sub.Close()
		p.sub = nil
	}
}

// SetActive enables or disables every button except ToggleButton.
func (p *Panel) SetActive(active bool) {
	for i := range p.buttons {
		if p.buttons[i].Name == ToggleButton {
			p.buttons[i].Enabled = true
			continue
		}
		p.buttons[i].Enabled = active
	}
}

// Buttons returns a copy of the panel's buttons.
func (p *Panel) Buttons() []Button {
	out := make([]Button, len(p.buttons))
	copy(out, p.buttons)
	return out
}

// Button looks up a button by name.
func (p *Panel) Button(name string) (Button, bool) {
	for _, b := range p.buttons {
		if b.Name == name {
			return b, true
		}
	}
	return Button{}, false
}

// ByCommand looks up the button bound to a command name.
func (p *Panel) ByCommand(cmd string) (Button, bool) {
	for _, b := range p.buttons {
		if b.Command == cmd {
			return b, true
		}
	}
	return Button{}, false
}
