package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/wayfinder/pkg/runner/shell"
)

func addShell(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Act as the host application interactively",
		Example: `
wayfinder shell
wayfinder> focus A.rvt
wayfinder> toggle debug
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			sh := &shell.Shell{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
			}
			s, err := newSession(sh)
			if err != nil {
				return err
			}
			sh.Session = s

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return sh.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
