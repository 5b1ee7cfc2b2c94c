package soldi

import (
	"fmt"

	"github.com/govalues/decimal"
)

// baseLayer returns the root layer. Its methods expose the typed API of
// [Money] under the names used by [Money.Call], so derived layers can
// override and super-call them.
func baseLayer() *Layer {
	return &Layer{
		Name: BaseLayerName,
		Methods: map[string]Method{
			"getAmount":    getAmount,
			"getCurrency":  getCurrency,
			"getPrecision": getPrecision,

			"add":              combine(Money.Add),
			"subtract":         combine(Money.Subtract),
			"multiply":         multiply,
			"divide":           scalar(Money.Divide),
			"percentage":       percentage,
			"allocate":         allocate,
			"convertPrecision": convertPrecision,
			"normalize":        normalize,
			"exchange":         exchange,

			"hasSameCurrencyAs":      predicate(Money.HasSameCurrencyAs),
			"hasSamePrecisionAs":     predicate(Money.HasSamePrecisionAs),
			"hasSameAmountAs":        predicate(Money.HasSameAmountAs),
			"isEqualTo":              predicate(Money.IsEqualTo),
			"isLessThan":             comparison(Money.IsLessThan),
			"isLessThanOrEqualTo":    comparison(Money.IsLessThanOrEqualTo),
			"isGreaterThan":          comparison(Money.IsGreaterThan),
			"isGreaterThanOrEqualTo": comparison(Money.IsGreaterThanOrEqualTo),
			"isZero":                 query(Money.IsZero),
			"isPositive":             query(Money.IsPositive),
			"isGreaterThanZero":      query(Money.IsGreaterThanZero),
			"isNegative":             query(Money.IsNegative),
			"hasSubUnits":            query(Money.HasSubUnits),

			"toUnit":        toUnit,
			"toRoundedUnit": toRoundedUnit,
			"toObject":      toObject,
			"toJSON":        toJSON,
			"toString":      toString,
		},
	}
}

func getAmount(c *Call, _ ...any) (any, error) {
	return c.Self().Amount(), nil
}

func getCurrency(c *Call, _ ...any) (any, error) {
	return c.Self().Currency().Code(), nil
}

func getPrecision(c *Call, _ ...any) (any, error) {
	return c.Self().Precision(), nil
}

// combine applies op after bringing both values to a common precision
// through the normalize method of the flavor.
func combine(op func(Money, Money) (Money, error)) Method {
	return func(c *Call, args ...any) (any, error) {
		self := c.Self()
		b, err := MoneyArg(args, 0)
		if err != nil {
			return nil, err
		}
		if self.precision == b.precision || !self.HasSameCurrencyAs(b) {
			return op(self, b)
		}
		ms, err := Result[[]Money](c.Invoke("normalize", b))
		if err != nil {
			return nil, err
		}
		if len(ms) != 2 {
			return nil, fmt.Errorf("%w: normalize returned %v values, want 2", ErrInvalidArgument, len(ms))
		}
		return op(ms[0], ms[1])
	}
}

// multiply accepts a float or an exact decimal factor.
func multiply(c *Call, args ...any) (any, error) {
	modes, err := ModesArg(args, 1)
	if err != nil {
		return nil, err
	}
	if e, ok := arg(args, 0).(decimal.Decimal); ok {
		return c.Self().MultiplyDecimal(e, modes...)
	}
	f, err := FloatArg(args, 0)
	if err != nil {
		return nil, err
	}
	return c.Self().Multiply(f, modes...)
}

// percentage multiplies by percent/100 through the multiply method of the
// flavor.
func percentage(c *Call, args ...any) (any, error) {
	percent, err := FloatArg(args, 0)
	if err != nil {
		return nil, err
	}
	modes, err := ModesArg(args, 1)
	if err != nil {
		return nil, err
	}
	self := c.Self()
	e, err := percentFactor(percent)
	if err != nil {
		return nil, fmt.Errorf("computing [%v%% of %v]: %w", percent, self, err)
	}
	return c.Invoke("multiply", e, modeArg(modes))
}

func scalar(op func(Money, float64, ...RoundingMode) (Money, error)) Method {
	return func(c *Call, args ...any) (any, error) {
		f, err := FloatArg(args, 0)
		if err != nil {
			return nil, err
		}
		modes, err := ModesArg(args, 1)
		if err != nil {
			return nil, err
		}
		return op(c.Self(), f, modes...)
	}
}

func predicate(op func(Money, Money) bool) Method {
	return func(c *Call, args ...any) (any, error) {
		b, err := MoneyArg(args, 0)
		if err != nil {
			return nil, err
		}
		return op(c.Self(), b), nil
	}
}

func comparison(op func(Money, Money) (bool, error)) Method {
	return func(c *Call, args ...any) (any, error) {
		b, err := MoneyArg(args, 0)
		if err != nil {
			return nil, err
		}
		return op(c.Self(), b)
	}
}

func query(op func(Money) bool) Method {
	return func(c *Call, _ ...any) (any, error) {
		return op(c.Self()), nil
	}
}

func allocate(c *Call, args ...any) (any, error) {
	ratios, err := RatiosArg(args, 0)
	if err != nil {
		return nil, err
	}
	return c.Self().Allocate(ratios...)
}

func convertPrecision(c *Call, args ...any) (any, error) {
	p, err := IntArg(args, 0)
	if err != nil {
		return nil, err
	}
	modes, err := ModesArg(args, 1)
	if err != nil {
		return nil, err
	}
	return c.Self().ConvertPrecision(p, modes...)
}

func normalize(c *Call, args ...any) (any, error) {
	b, err := MoneyArg(args, 0)
	if err != nil {
		return nil, err
	}
	modes, err := ModesArg(args, 1)
	if err != nil {
		return nil, err
	}
	self := c.Self()
	p := max(self.precision, b.precision)
	x, y := self, b
	if x.precision != p {
		x, err = Result[Money](c.Invoke("convertPrecision", p, modeArg(modes)))
		if err != nil {
			return nil, err
		}
	}
	if y.precision != p {
		y, err = Result[Money](y.Call("convertPrecision", p, modeArg(modes)))
		if err != nil {
			return nil, err
		}
	}
	return []Money{x, y}, nil
}

// modeArg turns an optional rounding mode back into a method argument.
func modeArg(modes []RoundingMode) any {
	if len(modes) == 0 {
		return nil
	}
	return modes[0]
}

func exchange(c *Call, args ...any) (any, error) {
	target, err := StringArg(args, 0)
	if err != nil {
		return nil, err
	}
	rates, err := RatesArg(args, 1)
	if err != nil {
		return nil, err
	}
	modes, err := ModesArg(args, 2)
	if err != nil {
		return nil, err
	}
	return c.Self().Exchange(target, rates, modes...)
}

func toUnit(c *Call, _ ...any) (any, error) {
	return c.Self().ToUnit(), nil
}

func toRoundedUnit(c *Call, args ...any) (any, error) {
	digits, err := IntArg(args, 0)
	if err != nil {
		return nil, err
	}
	modes, err := ModesArg(args, 1)
	if err != nil {
		return nil, err
	}
	return c.Self().ToRoundedUnit(digits, modes...)
}

func toObject(c *Call, _ ...any) (any, error) {
	return c.Self().ToObject(), nil
}

// toJSON dispatches toObject from the top of the lineage so that layers
// overriding toObject shape the document.
func toJSON(c *Call, _ ...any) (any, error) {
	return c.Invoke("toObject")
}

func toString(c *Call, _ ...any) (any, error) {
	return c.Self().String(), nil
}
