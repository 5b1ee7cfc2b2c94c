package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoundCmd(a *app) *cobra.Command {
	var digits int
	cmd := &cobra.Command{
		Use:   "round AMOUNT",
		Short: "Rounds an amount to a number of fractional digits",
		Example: "  soldi round 10.55 --digits 1\n" +
			"  soldi round 10.55 --digits 1 --rounding HALF_ODD",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.parseMoney(args[0])
			if err != nil {
				return err
			}
			u, err := m.ToRoundedUnit(digits, a.mode())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}
	cmd.Flags().IntVarP(&digits, "digits", "d", 0, "number of fractional digits")
	return cmd
}
