package dinero

import (
	"context"
	"fmt"

	"github.com/nick-codes/soldi"
	"github.com/nick-codes/soldi/locale"
	"github.com/nick-codes/soldi/rates"
	"github.com/sirupsen/logrus"
)

func initialize(f *soldi.Flavor, opts soldi.Options) (soldi.Options, error) {
	if opts.Currency != "" {
		return opts, nil
	}
	opts.Currency = DefaultCurrency
	if v, ok := f.Global(GlobalDefaultCurrency); ok {
		if s, ok := v.(string); ok && s != "" {
			opts.Currency = s
		}
	}
	return opts, nil
}

func alias(target string) soldi.Method {
	return func(c *soldi.Call, args ...any) (any, error) {
		return c.Invoke(target, args...)
	}
}

func percentage(c *soldi.Call, args ...any) (any, error) {
	p, err := soldi.FloatArg(args, 0)
	if err != nil {
		return nil, err
	}
	if p > 100 {
		return nil, fmt.Errorf("%w: %v must be less than or equal to 100", soldi.ErrInvalidPercentage, p)
	}
	return c.Super(args...)
}

func toObject(c *soldi.Call, args ...any) (any, error) {
	obj, err := soldi.Result[map[string]any](c.Super(args...))
	if err != nil {
		return nil, err
	}
	obj["precision"] = c.Self().Precision()
	if tag, ok := locale.Lookup(c.Self()); ok {
		obj["locale"] = tag
	}
	return obj, nil
}

func convert(c *soldi.Call, args ...any) (any, error) {
	var ctx context.Context
	if len(args) > 0 {
		ctx, _ = args[0].(context.Context)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	to, err := soldi.StringArg(args, 1)
	if err != nil {
		return nil, err
	}
	modes, err := soldi.ModesArg(args, 3)
	if err != nil {
		return nil, err
	}
	self := c.Self()
	if self.Currency().Code() == to {
		return self, nil
	}
	src, err := source(c.Flavor(), args)
	if err != nil {
		return nil, err
	}
	rate, err := src.Rate(ctx, self.Currency().Code(), to)
	if err != nil {
		return nil, fmt.Errorf("converting %v to %v: %w", self, to, err)
	}
	c.Flavor().Logger().WithFields(logrus.Fields{
		"from": self.Currency().Code(),
		"to":   to,
		"rate": rate,
	}).Debug("converting")
	var mode any
	if len(modes) > 0 {
		mode = modes[0]
	}
	return c.Invoke("exchange", to, map[string]float64{to: rate}, mode)
}

// source resolves the rate source of a convert call. A payload without a
// property path takes the one of the global setting.
func source(f *soldi.Flavor, args []any) (rates.Source, error) {
	g, _ := f.Global(GlobalExchangeRatesAPI)
	var src any
	if len(args) > 2 {
		src = args[2]
	}
	switch s := src.(type) {
	case nil:
		if gs, ok := g.(rates.Source); ok {
			return gs, nil
		}
		return nil, rates.ErrMissingSource
	case rates.Payload:
		if gp, ok := g.(rates.Payload); ok && s.PropertyPath == "" {
			s.PropertyPath = gp.PropertyPath
		}
		return s, nil
	case rates.Source:
		return s, nil
	}
	return nil, fmt.Errorf("%w: argument 2: got %T, want rates.Source", soldi.ErrInvalidArgument, src)
}
