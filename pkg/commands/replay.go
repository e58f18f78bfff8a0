package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/wayfinder/pkg/commands/options"
	"tableflip.dev/wayfinder/pkg/runner/replay"
)

func addReplay(topLevel *cobra.Command) {
	po := &options.PromptOptions{}
	ro := &options.ReplayOptions{}

	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay host lifecycle events from a script",
		Long: `Replay host lifecycle events from a script, one step per line.

Steps:
  open <doc>, focus <doc>, closing <doc>, closed <doc>, close <doc>
  toggle active|debug, add-sign <room>, update-signs, status

Use "-" to read the script from stdin.`,
		Example: `
wayfinder replay session.txt --answer yes
cat session.txt | wayfinder replay - --answer no
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a script")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var script io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return output.HandleError(err)
				}
				defer f.Close()
				script = f
			}

			p, err := po.Prompter()
			if err != nil {
				return err
			}
			s, err := newSession(p)
			if err != nil {
				return output.HandleError(err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			r := replay.Replay{
				Script:  script,
				Session: s,
				Out:     cmd.OutOrStdout(),
				Strict:  ro.Strict,
				Quiet:   ro.Quiet,
			}
			err = r.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddPromptArgs(cmd, po)
	options.AddReplayArgs(cmd, ro)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}
