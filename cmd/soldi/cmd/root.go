// Package cmd implements the soldi command line.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/govalues/decimal"
	"github.com/nick-codes/soldi"
	"github.com/nick-codes/soldi/dinero"
	"github.com/nick-codes/soldi/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	cfgFile   string
	verbose   bool
	currency  string
	rounding  string
	precision int

	cfg    *config.Config
	log    *logrus.Logger
	flavor *soldi.Flavor
}

// NewRootCommand returns the soldi command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "soldi",
		Short: "Exact money arithmetic on the command line",
		Long: `soldi performs arithmetic on monetary values stored as integer minor
units. Amounts are given in major units, for example 12.34, and results are
printed as JSON records of amount, currency and precision.

Settings are read from the config file, SOLDI_* environment variables and
a .env file in the working directory.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVarP(&a.currency, "currency", "c", "", "currency of the amounts (default from config)")
	root.PersistentFlags().StringVarP(&a.rounding, "rounding", "r", "", "rounding mode (default from config)")
	root.PersistentFlags().IntVarP(&a.precision, "precision", "p", -1, "precision of the amounts (default from currency)")

	root.AddCommand(
		newAddCmd(a),
		newAllocateCmd(a),
		newConvertCmd(a),
		newExchangeCmd(a),
		newRoundCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the soldi command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.currency == "" {
		a.currency = cfg.Currency
	}
	if a.rounding == "" {
		a.rounding = cfg.Rounding
	}
	if _, err := soldi.ParseRoundingMode(a.rounding); err != nil {
		return err
	}

	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(cfg.Level())
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}

	a.flavor, err = dinero.NewFlavor(soldi.NewBase(soldi.WithLogger(a.log)))
	if err != nil {
		return err
	}
	if err := a.flavor.SetGlobal(dinero.GlobalDefaultCurrency, a.currency); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"flavor":   a.flavor.Name(),
		"currency": a.currency,
		"rounding": a.rounding,
	}).Debug("configured")
	return nil
}

func (a *app) mode() soldi.RoundingMode {
	m, err := soldi.ParseRoundingMode(a.rounding)
	if err != nil {
		return soldi.DefaultRoundingMode
	}
	return m
}

// parseMoney builds a value from an amount in major units.
func (a *app) parseMoney(s string) (soldi.Money, error) {
	u, err := decimal.Parse(s)
	if err != nil {
		return soldi.Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	opts := soldi.Options{}.WithUnit(u)
	if a.precision >= 0 {
		opts = opts.WithPrecision(a.precision)
	}
	return a.flavor.New(opts)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
