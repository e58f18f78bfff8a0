package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions switches a command between colored tables and JSON. With
// JSON set, both results and errors are written as JSON documents.
type OutputOptions struct {
	JSON bool

	// Out receives JSON output; color.Output when nil.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false,
		"Output as JSON.")
}

func (o *OutputOptions) out() io.Writer {
	if o.Out == nil {
		return color.Output
	}
	return o.Out
}

// WriteJSON writes v as indented JSON.
func (o *OutputOptions) WriteJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(o.out(), string(b))
	return err
}

// HandleError prints err as {"error": "..."} and swallows it when JSON is
// set, so scripted callers always get a parseable document. Otherwise err is
// returned for cobra to print.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	if werr := o.WriteJSON(map[string]string{"error": err.Error()}); werr != nil {
		return werr
	}
	return nil
}
