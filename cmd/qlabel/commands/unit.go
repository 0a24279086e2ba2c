package commands

import (
	"fmt"
	"strconv"

	"github.com/chrisconley/qlabel/internal"
	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// NewUnitCmd parses a unit string and prints its factors.
func NewUnitCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit TEXT",
		Short: "Parse a unit string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := env.UnitPolicy()
			if err != nil {
				return err
			}
			if lenient, _ := cmd.Flags().GetBool("lenient"); lenient {
				policy = internal.UnitLenient
			}

			resolver := internal.NewUnitResolver(policy, internal.WithLogger(logger.Named("units")))
			unit, err := resolver.Resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			parsed, ok := unit.Unit()
			if !ok {
				fmt.Fprintln(out, unit.String())
				return nil
			}

			fmt.Fprintln(out, parsed.String())
			data := pterm.TableData{{"Symbol", "Exponent"}}
			if scale, ok := parsed.Scale(); ok {
				data = append(data, []string{"(scale)", scale.String()})
			}
			for _, f := range parsed.Factors() {
				data = append(data, []string{f.Symbol(), strconv.Itoa(f.Exponent())})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}
	cmd.Flags().Bool("lenient", false, "Keep unparsable text instead of failing")
	return cmd
}
