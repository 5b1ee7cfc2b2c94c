package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAllocateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "allocate AMOUNT RATIO...",
		Short: "Splits an amount by ratios without losing minor units",
		Long: `Splits an amount into parts proportional to the ratios.

The parts always add up to the amount; leftover minor units go to the first
parts with a positive ratio.`,
		Example: "  soldi allocate 1.01 50 50\n  soldi allocate 100 1 1 1",
		Args:    cobra.MinimumNArgs(2),
		RunE:    a.runAllocate,
	}
}

func (a *app) runAllocate(cmd *cobra.Command, args []string) error {
	m, err := a.parseMoney(args[0])
	if err != nil {
		return err
	}
	ratios := make([]any, 0, len(args)-1)
	for _, s := range args[1:] {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parsing ratio %q: %w", s, err)
		}
		ratios = append(ratios, r)
	}
	parts, err := m.Call("allocate", ratios...)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), parts)
}
