// Package prompt asks the user whether to enable the app for a new document.
package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// Question is the text shown for a document with no saved setting.
const Question = "Would you like to enable WayFinder for %s? You may change this later with the 'Enable / Disable' button"

// Confirm asks on a terminal with a yes/no prompt.
type Confirm struct {
	In  io.Reader
	Out io.Writer
	// Default is the answer when the user just presses enter or the prompt
	// can not be shown.
	Default bool
}

// ConfirmEnable implements focus.Prompter.
func (c *Confirm) ConfirmEnable(name string) bool {
	def := "n"
	if c.Default {
		def = "y"
	}
	p := promptui.Prompt{
		Label:     fmt.Sprintf(Question, name),
		IsConfirm: true,
		Default:   def,
	}
	if c.In != nil {
		p.Stdin = io.NopCloser(c.In)
	}
	if c.Out != nil {
		p.Stdout = nopCloser{c.Out}
	}

	_, err := p.Run()
	switch {
	case err == nil:
		return true
	case errors.Is(err, promptui.ErrAbort):
		return false
	default:
		// Interrupted or no terminal.
		return c.Default
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Fixed answers every prompt with the same value. Scripted sessions use it.
type Fixed bool

// ConfirmEnable implements focus.Prompter.
func (f Fixed) ConfirmEnable(string) bool { return bool(f) }

// Answers replies from a per-document table, falling back to Default.
type Answers struct {
	ByName  map[string]bool
	Default bool
	Asked   []string
}

// ConfirmEnable implements focus.Prompter and records the question.
func (a *Answers) ConfirmEnable(name string) bool {
	a.Asked = append(a.Asked, name)
	if v, ok := a.ByName[name]; ok {
		return v
	}
	return a.Default
}
