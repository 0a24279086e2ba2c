package commands

import (
	"fmt"

	"github.com/chrisconley/qlabel/internal"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// NewRequestCmd checks a request file and shows which keys share a label.
func NewRequestCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "request FILE",
		Short: "Check a request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := internal.LoadRequestConfig(args[0])
			if err != nil {
				return err
			}
			codec, err := env.Codec()
			if err != nil {
				return err
			}
			set, err := codec.ParseRequests(config.ToSpec().Requests)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Key", "Label", "Served by"}}
			for _, key := range set.Keys() {
				label, _ := set.Label(key)
				servedBy := "-"
				if primary := set.PrimaryKey(key); primary != key {
					servedBy = primary
				}
				data = append(data, []string{key, label.String(), servedBy})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table)
			fmt.Fprintf(out, "%d keys, %d distinct labels\n", set.Len(), len(set.Unique()))
			return nil
		},
	}
}
