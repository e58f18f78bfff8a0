package options

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/wayfinder/pkg/focus"
	"tableflip.dev/wayfinder/pkg/prompt"
)

// PromptOptions decides how new documents get their first setting.
type PromptOptions struct {
	Answer string
}

func AddPromptArgs(cmd *cobra.Command, o *PromptOptions) {
	AddPromptArgsDefault(cmd, o, "ask")
}

// AddPromptArgsDefault is AddPromptArgs for commands that can not ask.
func AddPromptArgsDefault(cmd *cobra.Command, o *PromptOptions, def string) {
	cmd.Flags().StringVar(&o.Answer, "answer", def,
		`Answer for documents with no saved setting: "yes", "no" or "ask".`)
}

// Prompter builds the focus.Prompter for the chosen answer.
func (o *PromptOptions) Prompter() (focus.Prompter, error) {
	switch strings.ToLower(o.Answer) {
	case "yes", "y", "true":
		return prompt.Fixed(true), nil
	case "no", "n", "false":
		return prompt.Fixed(false), nil
	case "ask", "":
		return &prompt.Confirm{In: os.Stdin, Out: os.Stdout}, nil
	default:
		return nil, fmt.Errorf("--answer must be yes, no or ask, got %q", o.Answer)
	}
}
