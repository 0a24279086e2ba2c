package commands

import (
	"fmt"

	"github.com/chrisconley/qlabel/internal"
	"github.com/spf13/cobra"
)

// NewRenderCmd builds a label from named fields.
func NewRenderCmd(env *Env) *cobra.Command {
	var fields internal.LabelFields
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build a label from named fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := env.Codec()
			if err != nil {
				return err
			}
			label, err := codec.Build(fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), label.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&fields.Quantity, "quantity", "", "Quantity code or mnemonic (required)")
	cmd.Flags().StringVar(&fields.Descriptor, "descriptor", "", "Quantity-specific descriptor")
	cmd.Flags().StringVar(&fields.DerivativeOrder, "order", "", "Derivative order, 0-4")
	cmd.Flags().StringVar(&fields.DerivativeCoordinate, "coord", "", "Derivative coordinates: X, Q, I, QX")
	cmd.Flags().StringVar(&fields.ReferenceState, "state", "", `Reference state: index, "c", "a" or "i->j"`)
	cmd.Flags().StringVar(&fields.Level, "level", "", "Level of theory: E, VE, H, A")
	_ = cmd.MarkFlagRequired("quantity")
	return cmd
}
