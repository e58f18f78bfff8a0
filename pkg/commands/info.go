package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/wayfinder/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about configuration and where settings are stored.",
		Example: `
wayfinder info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, store, err := openStore()
			if err != nil {
				return err
			}
			s := info.Info{
				Config: cfg,
				Store:  store,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
