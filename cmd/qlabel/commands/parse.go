package commands

import (
	"encoding/json"
	"fmt"

	"github.com/chrisconley/qlabel/specs"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// NewParseCmd validates labels and prints their canonical form.
func NewParseCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse LABEL...",
		Short: "Validate labels and print their canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOutput, _ := cmd.Flags().GetBool("json")
			codec, err := env.Codec()
			if err != nil {
				return err
			}

			parsed := make([]specs.LabelSpec, 0, len(args))
			for _, arg := range args {
				label, err := codec.Parse(arg)
				if err != nil {
					return errors.Wrapf(err, "label %q", arg)
				}
				spec := label.ToSpec()
				spec.Text = label.String()
				parsed = append(parsed, spec)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				data, err := json.MarshalIndent(parsed, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to format JSON")
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			for _, spec := range parsed {
				fmt.Fprintln(out, spec.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output parsed labels as JSON")
	return cmd
}
