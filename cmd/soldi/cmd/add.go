package cmd

import (
	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add AMOUNT AMOUNT...",
		Short: "Adds amounts",
		Long: `Adds amounts of the same currency.

Amounts with different precisions are converted to the highest one first.`,
		Example: "  soldi add 10.05 0.95\n  soldi add -c JPY 100 250",
		Args:    cobra.MinimumNArgs(2),
		RunE:    a.runAdd,
	}
}

func (a *app) runAdd(cmd *cobra.Command, args []string) error {
	sum, err := a.parseMoney(args[0])
	if err != nil {
		return err
	}
	for _, s := range args[1:] {
		m, err := a.parseMoney(s)
		if err != nil {
			return err
		}
		sum, err = sum.Add(m)
		if err != nil {
			return err
		}
	}
	return printJSON(cmd.OutOrStdout(), sum)
}
