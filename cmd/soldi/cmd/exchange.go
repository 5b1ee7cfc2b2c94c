package cmd

import (
	"github.com/spf13/cobra"
)

func newExchangeCmd(a *app) *cobra.Command {
	var (
		to   string
		rate float64
	)
	cmd := &cobra.Command{
		Use:   "exchange AMOUNT",
		Short: "Exchanges an amount at a given rate",
		Long: `Exchanges an amount to another currency at a given rate.

The result keeps the precision of the amount.`,
		Example: "  soldi exchange 1.00 --to EUR --rate 0.9",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.parseMoney(args[0])
			if err != nil {
				return err
			}
			res, err := m.Exchange(to, map[string]float64{to: rate}, a.mode())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target currency")
	cmd.Flags().Float64Var(&rate, "rate", 0, "units of the target currency per unit of the amount currency")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
