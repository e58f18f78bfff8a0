package options

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// LoggingOptions controls diagnostic log output on stderr.
type LoggingOptions struct {
	Verbose bool
}

func AddLoggingArgs(cmd *cobra.Command, o *LoggingOptions) {
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log lifecycle events and bus traffic to stderr.")
}

// Logger returns a text logger; warnings only unless verbose.
func (o *LoggingOptions) Logger() *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
