package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/wayfinder/pkg/runner/settings"
)

func addSettings(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show saved per-document settings",
		Example: `
wayfinder settings
wayfinder settings set A.rvt true
wayfinder settings forget A.rvt
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSettings(settings.Settings{Action: settings.List})
		},
	}
	cmd.PersistentFlags().BoolVar(&output.JSON, "json", false, "Output as JSON.")

	set := &cobra.Command{
		Use:   "set <document> <true|false>",
		Short: "Save the enabled flag for a document",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a document and a value")
			}
			if _, err := strconv.ParseBool(args[1]); err != nil {
				return err
			}
			return nil
		},
		ValidArgsFunction: documentCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			active, _ := strconv.ParseBool(args[1])
			return runSettings(settings.Settings{Action: settings.Set, Name: args[0], Active: active})
		},
	}

	forget := &cobra.Command{
		Use:   "forget <document>",
		Short: "Drop the saved setting so the next session asks again",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a document")
			}
			return nil
		},
		ValidArgsFunction: documentCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettings(settings.Settings{Action: settings.Forget, Name: args[0]})
		},
	}

	cmd.AddCommand(set, forget)
	topLevel.AddCommand(cmd)
}

func runSettings(s settings.Settings) error {
	_, store, err := openStore()
	if err != nil {
		return output.HandleError(err)
	}
	s.Store = store
	s.Output = output
	err = s.Do(context.Background())
	return output.HandleError(err)
}
