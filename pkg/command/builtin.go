package command

import "context"

// Names of the built-in commands.
const (
	NameToggleActive   = "toggle-active"
	NameToggleDebug    = "toggle-debug"
	NameUpdateSignInfo = "update-signs"
)

// Toggler flips the focused document's flags.
type Toggler interface {
	ToggleActive() (bool, error)
	ToggleDebug() (bool, error)
}

// SignUpdater refreshes sign info for the focused document.
type SignUpdater interface {
	UpdateFocused() (int, error)
}

// ToggleActive is the "Enable / Disable" button.
func ToggleActive(t Toggler) Command {
	return Func{ID: NameToggleActive, Fn: func(context.Context) Result {
		_, err := t.ToggleActive()
		return FromError(err)
	}}
}

// ToggleDebug switches verbose behavior for the focused document.
func ToggleDebug(t Toggler) Command {
	return Func{ID: NameToggleDebug, Fn: func(context.Context) Result {
		_, err := t.ToggleDebug()
		return FromError(err)
	}}
}

// UpdateSignInfo is the "Update Info" button.
func UpdateSignInfo(u SignUpdater) Command {
	return Func{ID: NameUpdateSignInfo, Fn: func(context.Context) Result {
		_, err := u.UpdateFocused()
		return FromError(err)
	}}
}
