// Package focus drives the document registry, the settings store and the
// change bus from host lifecycle callbacks.
package focus

import (
	"errors"
	"log/slog"

	"tableflip.dev/wayfinder/pkg/bus"
	"tableflip.dev/wayfinder/pkg/diag"
	"tableflip.dev/wayfinder/pkg/host"
	"tableflip.dev/wayfinder/pkg/registry"
)

// Store is the slice of the settings store the controller needs.
type Store interface {
	Get(name string) (bool, bool)
	Save(name string, active bool) error
	AppWorking() bool
}

// Prompter asks the user whether to enable the app for a document that has
// no saved setting.
type Prompter interface {
	ConfirmEnable(name string) bool
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(name string) bool

func (f PromptFunc) ConfirmEnable(name string) bool { return f(name) }

// Controller is the façade host callbacks invoke.
type Controller struct {
	reg    *registry.Registry
	bus    *bus.Bus
	store  Store
	prompt Prompter
	report diag.Reporter
	log    *slog.Logger

	// closing is the document named by the last DocumentClosing. Focus may
	// already have moved elsewhere by then.
	closing string

	regs []host.Registration
	ev   *host.Events
}

// Option configures a Controller.
type Option func(*Controller)

// WithReporter sets where recoverable failures are shown.
func WithReporter(r diag.Reporter) Option {
	return func(c *Controller) {
		if r != nil {
			c.report = r
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New wires a controller. reg must publish to b.
func New(reg *registry.Registry, b *bus.Bus, store Store, prompt Prompter, opts ...Option) *Controller {
	c := &Controller{
		reg:    reg,
		bus:    b,
		store:  store,
		prompt: prompt,
		report: diag.Discard,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DocumentOpened is a hook only; registration waits for the first focus.
func (c *Controller) DocumentOpened(name string) error {
	c.log.Debug("document opened", "document", name)
	return nil
}

// DocumentFocused focuses name, registering it first when unknown. A new
// document's active flag comes from the store, or from the prompt when the
// store has no record; the prompt's answer is saved.
func (c *Controller) DocumentFocused(name string) error {
	if !registry.ValidName(name) {
		c.report.Report("Document not registered", registry.ErrEmptyName)
		return registry.ErrEmptyName
	}
	if c.reg.Has(name) {
		return c.reg.Refocus(name)
	}

	seed, ok := c.store.Get(name)
	if !ok {
		seed = c.confirm(name)
		if c.store.AppWorking() {
			if err := c.store.Save(name, seed); err != nil {
				c.report.Report("Couldn't save this model's settings", err)
			}
		}
	}
	c.log.Info("document registered", "document", name, "active", seed, "saved", ok)
	return c.reg.OpenOrFocus(name, seed, false)
}

func (c *Controller) confirm(name string) bool {
	if c.prompt == nil {
		return false
	}
	return c.prompt.ConfirmEnable(name)
}

// DocumentClosing saves the closing document's own active flag. The debug
// flag is never saved.
func (c *Controller) DocumentClosing(name string) error {
	c.closing = name
	state, ok := c.reg.State(name)
	if !ok {
		err := &registry.UnregisteredDocumentError{Name: name}
		c.report.Report("The closing model is not registered", err)
		return err
	}
	if !c.store.AppWorking() {
		return nil
	}
	if err := c.store.Save(name, state.Active); err != nil {
		c.report.Report("Couldn't save this model's settings", err)
		return err
	}
	return nil
}

// DocumentClosed forgets the document. An empty name means the document
// announced by the last DocumentClosing.
func (c *Controller) DocumentClosed(name string) error {
	if name == "" {
		name = c.closing
	}
	if c.closing != "" && c.closing != name {
		c.log.Warn("closed document differs from closing document", "closing", c.closing, "closed", name)
	}
	c.closing = ""

	state, ok := c.reg.Remove(name)
	if !ok {
		err := &registry.UnregisteredDocumentError{Name: name}
		c.report.Report("The closed model is not registered", err)
		return err
	}
	c.log.Info("document removed", "document", state.Name, "active", state.Active)
	return nil
}

// FocusedActive returns the focused document's active flag, or false after
// reporting when nothing usable is focused.
func (c *Controller) FocusedActive() bool {
	v, err := c.reg.Active()
	if err != nil {
		c.reportFocus(err)
		return false
	}
	return v
}

// FocusedDebug returns the focused document's debug flag, or false after
// reporting when nothing usable is focused.
func (c *Controller) FocusedDebug() bool {
	v, err := c.reg.Debug()
	if err != nil {
		c.reportFocus(err)
		return false
	}
	return v
}

// ToggleActive flips the focused document's active flag. Errors are
// returned, not reported; command dispatch reports them.
func (c *Controller) ToggleActive() (bool, error) {
	return c.reg.ToggleActive()
}

// ToggleDebug flips the focused document's debug flag.
func (c *Controller) ToggleDebug() (bool, error) {
	return c.reg.ToggleDebug()
}

// Focused returns the focused document's state.
func (c *Controller) Focused() (registry.DocumentState, bool) {
	name, ok := c.reg.Focused()
	if !ok {
		return registry.DocumentState{}, false
	}
	return c.reg.State(name)
}

func (c *Controller) reportFocus(err error) {
	switch {
	case errors.Is(err, registry.ErrNoFocus):
		c.report.Report("Current model not set", err)
	case registry.IsUnregistered(err):
		c.report.Report("The open model is not registered", err)
	default:
		c.report.Report("Error", err)
	}
}

// Subscribe registers h for change notifications; h is called at once with
// the current state.
func (c *Controller) Subscribe(h bus.Handler) *bus.Subscription {
	return c.bus.Subscribe(h)
}

// Unsubscribe removes a subscription. It is idempotent.
func (c *Controller) Unsubscribe(sub *bus.Subscription) {
	c.bus.Unsubscribe(sub)
}

// Start attaches the controller to the host's lifecycle callbacks. Calling
// Start again first detaches from the previous registry.
func (c *Controller) Start(ev *host.Events) {
	c.Stop()
	c.ev = ev
	c.regs = []host.Registration{
		ev.Add(host.DocumentOpened, c.DocumentOpened),
		ev.Add(host.DocumentFocused, c.DocumentFocused),
		ev.Add(host.DocumentClosing, c.DocumentClosing),
		ev.Add(host.DocumentClosed, c.DocumentClosed),
	}
}

// Stop detaches every callback attached by Start. It is safe to call more
// than once.
func (c *Controller) Stop() {
	if c.ev == nil {
		return
	}
	for _, reg := range c.regs {
		c.ev.Remove(reg)
	}
	c.regs = nil
	c.ev = nil
}
