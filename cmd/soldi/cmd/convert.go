package cmd

import (
	"errors"

	"github.com/nick-codes/soldi/dinero"
	"github.com/nick-codes/soldi/rates"
	"github.com/spf13/cobra"
)

var errNoRates = errors.New("no rates file configured, use --rates or SOLDI_RATES_FILE")

func newConvertCmd(a *app) *cobra.Command {
	var (
		to        string
		ratesFile string
	)
	cmd := &cobra.Command{
		Use:   "convert AMOUNT",
		Short: "Converts an amount using a rates file",
		Long: `Converts an amount to another currency using a rate table.

The table is read from a YAML, TOML or JSON file holding a base currency
and the rates of other currencies against it. Rates between two quoted
currencies are crossed through the base.`,
		Example: "  soldi convert 10 --to EUR --rates rates.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ratesFile == "" {
				ratesFile = a.cfg.RatesFile
			}
			if ratesFile == "" {
				return errNoRates
			}
			table, err := rates.Load(ratesFile)
			if err != nil {
				return err
			}
			if err := a.flavor.SetGlobal(dinero.GlobalExchangeRatesAPI, table); err != nil {
				return err
			}
			m, err := a.parseMoney(args[0])
			if err != nil {
				return err
			}
			res, err := dinero.Convert(cmd.Context(), m, to, nil, a.mode())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target currency")
	cmd.Flags().StringVar(&ratesFile, "rates", "", "rates file (default from config)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
