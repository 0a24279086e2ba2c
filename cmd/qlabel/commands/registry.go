package commands

import (
	"fmt"
	"strings"

	"github.com/chrisconley/qlabel/internal"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// NewRegistryCmd lists the quantity table, or one entry.
func NewRegistryCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "registry [QUANTITY]",
		Short: "List known quantities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := env.Registry()
			if err != nil {
				return err
			}

			quantities := registry.Quantities()
			if len(args) == 1 {
				id, err := internal.ParseQuantityID(args[0])
				if err != nil {
					return err
				}
				q, err := registry.Lookup(id)
				if err != nil {
					return err
				}
				quantities = []internal.Quantity{q}
			}

			data := pterm.TableData{{"ID", "Name", "Descriptors", "States"}}
			for _, q := range quantities {
				descriptors := "any"
				if d := q.Descriptors(); d != nil {
					descriptors = strings.Join(d, ", ")
				}
				states := "no"
				if q.AcceptsStates() {
					states = "yes"
				}
				data = append(data, []string{q.ID().String(), q.Name(), descriptors, states})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
