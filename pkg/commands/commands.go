package commands

import (
	"log/slog"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/wayfinder/pkg/commands/options"
	"tableflip.dev/wayfinder/pkg/diag"
	"tableflip.dev/wayfinder/pkg/focus"
	"tableflip.dev/wayfinder/pkg/persist"
	"tableflip.dev/wayfinder/pkg/session"
)

var (
	output = &options.OutputOptions{}
	lo     = &options.LoggingOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "wayfinder",
		Short: base.Wrap80("Track which open documents have WayFinder enabled, and remember it between sessions."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLoggingArgs(cmd, lo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addReplay(topLevel)
	addShell(topLevel)
	addSettings(topLevel)
	addWatch(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

func logger() *slog.Logger {
	l := lo.Logger()
	slog.SetDefault(l)
	return l
}

func openStore() (persist.Config, *persist.Store, error) {
	cfg, err := persist.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	// A disabled store is still returned; callers check AppWorking.
	s, _ := persist.Open(cfg, persist.WithLogger(logger()))
	return cfg, s, nil
}

func newSession(p focus.Prompter) (*session.Session, error) {
	cfg, err := persist.LoadConfig()
	if err != nil {
		return nil, err
	}
	l := logger()
	return session.New(session.Config{
		Persist:  cfg,
		Prompter: p,
		Reporter: &diag.Printer{Log: l},
		Logger:   l,
	}), nil
}
