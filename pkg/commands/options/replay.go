package options

import (
	"github.com/spf13/cobra"
)

// ReplayOptions
type ReplayOptions struct {
	Strict bool
	Quiet  bool
}

func AddReplayArgs(cmd *cobra.Command, o *ReplayOptions) {
	cmd.Flags().BoolVar(&o.Strict, "strict", false,
		"Stop at the first failing step.")
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", false,
		"Do not echo each step.")
}
