// Package dinero provides a flavor compatible with the Dinero.js v1 API.
//
// The flavor is built on the WithLocale layer. It fills in a default
// currency, exposes the Dinero method names as aliases of the root ones,
// caps percentages at 100, always reports the precision in toObject and
// converts values through a [rates.Source].
package dinero

import (
	"context"
	"fmt"
	"sync"

	"github.com/nick-codes/soldi"
	"github.com/nick-codes/soldi/locale"
	"github.com/nick-codes/soldi/rates"
)

const (
	// LayerName is the name of the layer in a flavor lineage.
	LayerName = "Dinero"
	// GlobalDefaultCurrency names the currency used when none is given.
	GlobalDefaultCurrency = "globalDefaultCurrency"
	// GlobalExchangeRatesAPI names the [rates.Source] used by convert
	// when none is given.
	GlobalExchangeRatesAPI = "globalExchangeRatesAPI"
	// DefaultCurrency is the default of GlobalDefaultCurrency.
	DefaultCurrency = "USD"
	// NormalizePrecisionStatic is the flavor static holding [NormalizePrecision].
	NormalizePrecisionStatic = "normalizePrecision"
)

var aliases = map[string]string{
	"equalsTo":           "isEqualTo",
	"hasSameCurrency":    "hasSameCurrencyAs",
	"hasSameAmount":      "hasSameAmountAs",
	"greaterThan":        "isGreaterThan",
	"greaterThanOrEqual": "isGreaterThanOrEqualTo",
	"lessThan":           "isLessThan",
	"lessThanOrEqual":    "isLessThanOrEqualTo",
	"hasCents":           "hasSubUnits",
}

// Layer returns the Dinero layer.
// It expects the WithLocale layer below it.
func Layer() soldi.Layer {
	methods := map[string]soldi.Method{
		"percentage": percentage,
		"toObject":   toObject,
		"convert":    convert,
	}
	for name, target := range aliases {
		methods[name] = alias(target)
	}
	return soldi.Layer{
		Name:    LayerName,
		Init:    initialize,
		Methods: methods,
		Globals: map[string]any{
			GlobalDefaultCurrency:  DefaultCurrency,
			GlobalExchangeRatesAPI: rates.Payload{PropertyPath: rates.DefaultPropertyPath},
		},
	}
}

// NewFlavor returns base extended with the WithLocale and Dinero layers.
func NewFlavor(base *soldi.Flavor) (*soldi.Flavor, error) {
	l, err := locale.With(base)
	if err != nil {
		return nil, err
	}
	f, err := l.Extend(Layer())
	if err != nil {
		return nil, err
	}
	f.SetStatic(NormalizePrecisionStatic, NormalizePrecision)
	return f, nil
}

var (
	flavorOnce sync.Once
	flavor     *soldi.Flavor
)

// Flavor returns the Dinero flavor built on [soldi.Base].
func Flavor() *soldi.Flavor {
	flavorOnce.Do(func() {
		var err error
		flavor, err = NewFlavor(soldi.Base())
		if err != nil {
			panic(fmt.Sprintf("NewFlavor(%v) failed: %v", soldi.Base(), err))
		}
	})
	return flavor
}

// New returns a value of the Dinero flavor.
func New(opts soldi.Options) (soldi.Money, error) {
	return Flavor().New(opts)
}

// MustNew is like [New] but panics if the value cannot be constructed.
func MustNew(opts soldi.Options) soldi.Money {
	m, err := New(opts)
	if err != nil {
		panic(fmt.Sprintf("New(%+v) failed: %v", opts, err))
	}
	return m
}

// Convert calls the convert method of value m.
// A nil source falls back to the globalExchangeRatesAPI setting.
func Convert(ctx context.Context, m soldi.Money, to string, src rates.Source, mode ...soldi.RoundingMode) (soldi.Money, error) {
	args := []any{ctx, to, src}
	if len(mode) > 0 {
		args = append(args, mode[0])
	}
	return soldi.Result[soldi.Money](m.Call("convert", args...))
}

// NormalizePrecision converts all values to the highest precision among
// them. Values already at that precision are returned as is.
//
// NormalizePrecision returns an error if fewer than two values are given.
func NormalizePrecision(ms ...soldi.Money) ([]soldi.Money, error) {
	if len(ms) < 2 {
		return nil, fmt.Errorf("%w: at least 2 values are required to normalize precision, got %v", soldi.ErrInvalidArgument, len(ms))
	}
	p := ms[0].Precision()
	for _, m := range ms[1:] {
		p = max(p, m.Precision())
	}
	res := make([]soldi.Money, len(ms))
	for i, m := range ms {
		if m.Precision() == p {
			res[i] = m
			continue
		}
		c, err := soldi.Result[soldi.Money](m.Call("convertPrecision", p))
		if err != nil {
			return nil, fmt.Errorf("normalizing precision: %w", err)
		}
		res[i] = c
	}
	return res, nil
}
