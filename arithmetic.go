package soldi

import (
	"fmt"
	"math"

	"github.com/govalues/decimal"
	"github.com/nick-codes/soldi/calc"
)

var (
	one     = decimal.MustNew(1, 0)
	hundred = decimal.MustNew(100, 0)
)

// Add returns the sum of values m and b.
// When the precisions differ, both values are first converted to the higher
// one with [DefaultRoundingMode], and the result carries that precision.
//
// Add returns an error if:
//   - values are denominated in different currencies;
//   - the result leaves the safe integer range.
func (m Money) Add(b Money) (Money, error) {
	c, err := m.add(b)
	if err != nil {
		return Money{}, fmt.Errorf("computing [%v + %v]: %w", m, b, err)
	}
	return c, nil
}

func (m Money) add(b Money) (Money, error) {
	if err := m.assertSameCurrency(b); err != nil {
		return Money{}, err
	}
	if calc.AdditionOverflows(m.amount, b.amount) {
		return Money{}, ErrOverflow
	}
	x, y, err := m.normalize(b, DefaultRoundingMode)
	if err != nil {
		return Money{}, err
	}
	if calc.AdditionOverflows(x.amount, y.amount) {
		return Money{}, ErrOverflow
	}
	return x.Inherit(func(o *Options) {
		o.Amount = calc.Add(x.amount, y.amount)
	})
}

// Subtract returns the difference between values m and b.
// Precisions are handled like in [Money.Add].
//
// Subtract returns an error if:
//   - values are denominated in different currencies;
//   - the result leaves the safe integer range.
func (m Money) Subtract(b Money) (Money, error) {
	c, err := m.subtract(b)
	if err != nil {
		return Money{}, fmt.Errorf("computing [%v - %v]: %w", m, b, err)
	}
	return c, nil
}

func (m Money) subtract(b Money) (Money, error) {
	if err := m.assertSameCurrency(b); err != nil {
		return Money{}, err
	}
	if calc.SubtractionOverflows(m.amount, b.amount) {
		return Money{}, ErrOverflow
	}
	x, y, err := m.normalize(b, DefaultRoundingMode)
	if err != nil {
		return Money{}, err
	}
	if calc.SubtractionOverflows(x.amount, y.amount) {
		return Money{}, ErrOverflow
	}
	return x.Inherit(func(o *Options) {
		o.Amount = calc.Subtract(x.amount, y.amount)
	})
}

// Multiply returns the product of value m and a factor, rounded to minor
// units with the given mode.
//
// Multiply returns an error if:
//   - the factor is not a finite number;
//   - more than one rounding mode is provided;
//   - the result leaves the safe integer range.
func (m Money) Multiply(factor float64, mode ...RoundingMode) (Money, error) {
	c, err := m.multiply(factor, mode)
	if err != nil {
		return Money{}, fmt.Errorf("computing [%v * %v]: %w", m, factor, err)
	}
	return c, nil
}

func (m Money) multiply(factor float64, modes []RoundingMode) (Money, error) {
	r, err := pickMode(modes)
	if err != nil {
		return Money{}, err
	}
	e, err := calc.FromFloat(factor)
	if err != nil {
		return Money{}, err
	}
	return m.mul(e, r)
}

// MultiplyDecimal is like [Money.Multiply] but accepts an exact factor.
func (m Money) MultiplyDecimal(e decimal.Decimal, mode ...RoundingMode) (Money, error) {
	c, err := m.multiplyDecimal(e, mode)
	if err != nil {
		return Money{}, fmt.Errorf("computing [%v * %v]: %w", m, e, err)
	}
	return c, nil
}

func (m Money) multiplyDecimal(e decimal.Decimal, modes []RoundingMode) (Money, error) {
	r, err := pickMode(modes)
	if err != nil {
		return Money{}, err
	}
	return m.mul(e, r)
}

func (m Money) mul(e decimal.Decimal, mode RoundingMode) (Money, error) {
	if calc.MultiplicationOverflows(m.amount, e) {
		return Money{}, ErrOverflow
	}
	p, err := calc.Multiply(m.amount, e)
	if err != nil {
		return Money{}, err
	}
	a, err := calc.Round(p, mode)
	if err != nil {
		return Money{}, err
	}
	return m.Inherit(func(o *Options) {
		o.Amount = a
	})
}

// Divide returns the quotient of value m and a divisor, rounded to minor
// units with the given mode.
//
// Divide returns an error if:
//   - the divisor is zero or not a finite number;
//   - more than one rounding mode is provided;
//   - the result leaves the safe integer range.
func (m Money) Divide(divisor float64, mode ...RoundingMode) (Money, error) {
	c, err := m.divide(divisor, mode)
	if err != nil {
		return Money{}, fmt.Errorf("computing [%v / %v]: %w", m, divisor, err)
	}
	return c, nil
}

func (m Money) divide(divisor float64, modes []RoundingMode) (Money, error) {
	r, err := pickMode(modes)
	if err != nil {
		return Money{}, err
	}
	e, err := calc.FromFloat(divisor)
	if err != nil {
		return Money{}, err
	}
	return m.quo(e, r)
}

func (m Money) quo(e decimal.Decimal, mode RoundingMode) (Money, error) {
	if calc.DivisionOverflows(m.amount, e) {
		if e.IsZero() {
			return Money{}, ErrDivisionByZero
		}
		return Money{}, ErrOverflow
	}
	q, err := calc.Divide(m.amount, e)
	if err != nil {
		return Money{}, err
	}
	a, err := calc.Round(q, mode)
	if err != nil {
		return Money{}, err
	}
	return m.Inherit(func(o *Options) {
		o.Amount = a
	})
}

// Percentage returns the given percentage of value m, rounded to minor
// units with the given mode.
// Percentages above 100 are allowed, so 150 returns one and a half times m.
//
// Percentage returns an error if:
//   - the percentage is not a positive finite number;
//   - more than one rounding mode is provided;
//   - the result leaves the safe integer range.
func (m Money) Percentage(percent float64, mode ...RoundingMode) (Money, error) {
	c, err := m.percentage(percent, mode)
	if err != nil {
		return Money{}, fmt.Errorf("computing [%v%% of %v]: %w", percent, m, err)
	}
	return c, nil
}

func (m Money) percentage(percent float64, modes []RoundingMode) (Money, error) {
	e, err := percentFactor(percent)
	if err != nil {
		return Money{}, err
	}
	r, err := pickMode(modes)
	if err != nil {
		return Money{}, err
	}
	return m.mul(e, r)
}

// percentFactor returns percent/100 as an exact decimal.
func percentFactor(percent float64) (decimal.Decimal, error) {
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent <= 0 {
		return decimal.Decimal{}, ErrInvalidPercentage
	}
	p, err := calc.FromFloat(percent)
	if err != nil {
		return decimal.Decimal{}, err
	}
	e, err := p.Quo(hundred)
	if err != nil {
		return decimal.Decimal{}, ErrOverflow
	}
	return e, nil
}

// ConvertPrecision returns value m expressed with a new precision.
// Increasing the precision is exact, decreasing it rounds with the given mode.
//
// ConvertPrecision returns an error if:
//   - the precision is negative or greater than [MaxPrecision];
//   - more than one rounding mode is provided;
//   - the result leaves the safe integer range.
func (m Money) ConvertPrecision(precision int, mode ...RoundingMode) (Money, error) {
	c, err := m.convertPrecision(precision, mode)
	if err != nil {
		return Money{}, fmt.Errorf("converting %v to precision %v: %w", m, precision, err)
	}
	return c, nil
}

func (m Money) convertPrecision(precision int, modes []RoundingMode) (Money, error) {
	r, err := pickMode(modes)
	if err != nil {
		return Money{}, err
	}
	return m.rescale(precision, r)
}

func (m Money) rescale(precision int, mode RoundingMode) (Money, error) {
	if precision < 0 || precision > MaxPrecision {
		return Money{}, fmt.Errorf("precision %v: %w", precision, ErrInvalidPrecision)
	}
	if m.amount == 0 {
		return m.Inherit(func(o *Options) {
			o.Amount = 0
			o.Precision = &precision
		})
	}
	f, err := calc.Pow10(precision - m.precision)
	if err != nil {
		return Money{}, err
	}
	if calc.MultiplicationOverflows(m.amount, f) {
		return Money{}, ErrOverflow
	}
	p, err := calc.Multiply(m.amount, f)
	if err != nil {
		return Money{}, err
	}
	a, err := calc.Round(p, mode)
	if err != nil {
		return Money{}, err
	}
	return m.Inherit(func(o *Options) {
		o.Amount = a
		o.Precision = &precision
	})
}

// Normalize returns values m and b converted to the higher of their two
// precisions. A value already at that precision is returned unchanged.
//
// Normalize returns an error if:
//   - more than one rounding mode is provided;
//   - a converted value leaves the safe integer range.
func (m Money) Normalize(b Money, mode ...RoundingMode) (Money, Money, error) {
	r, err := pickMode(mode)
	if err != nil {
		return Money{}, Money{}, fmt.Errorf("normalizing %v and %v: %w", m, b, err)
	}
	x, y, err := m.normalize(b, r)
	if err != nil {
		return Money{}, Money{}, fmt.Errorf("normalizing %v and %v: %w", m, b, err)
	}
	return x, y, nil
}

func (m Money) normalize(b Money, mode RoundingMode) (Money, Money, error) {
	p := max(m.precision, b.precision)
	x, y := m, b
	var err error
	if x.precision != p {
		x, err = x.rescale(p, mode)
		if err != nil {
			return Money{}, Money{}, err
		}
	}
	if y.precision != p {
		y, err = y.rescale(p, mode)
		if err != nil {
			return Money{}, Money{}, err
		}
	}
	return x, y, nil
}

// Exchange returns value m converted to the target currency using the rate
// found under the target code in rates.
// Any finite rate is accepted, including zero and negative ones.
// The result keeps the precision of m and is rounded with the given mode.
// See also [ExchangeRate.Conv].
//
// Exchange returns an error if:
//   - rates is nil;
//   - the target rate is missing or not a finite number;
//   - more than one rounding mode is provided;
//   - the result leaves the safe integer range.
func (m Money) Exchange(target string, rates map[string]float64, mode ...RoundingMode) (Money, error) {
	c, err := m.exchange(target, rates, mode)
	if err != nil {
		return Money{}, fmt.Errorf("exchanging %v to %v: %w", m, target, err)
	}
	return c, nil
}

func (m Money) exchange(target string, rates map[string]float64, modes []RoundingMode) (Money, error) {
	if rates == nil {
		return Money{}, ErrMissingRates
	}
	rate, ok := rates[target]
	if !ok {
		return Money{}, fmt.Errorf("no rate for %q: %w", target, ErrInvalidRate)
	}
	q, err := ParseCurr(target)
	if err != nil {
		return Money{}, err
	}
	d, err := calc.FromFloat(rate)
	if err != nil {
		return Money{}, fmt.Errorf("rate %v: %w", rate, ErrInvalidRate)
	}
	r, err := pickMode(modes)
	if err != nil {
		return Money{}, err
	}
	return m.exch(q, d, r)
}

// exch multiplies the amount by the rate and moves the result to the quote
// currency, keeping the precision of m.
func (m Money) exch(quote Currency, rate decimal.Decimal, mode RoundingMode) (Money, error) {
	if calc.MultiplicationOverflows(m.amount, rate) {
		return Money{}, ErrOverflow
	}
	p, err := calc.Multiply(m.amount, rate)
	if err != nil {
		return Money{}, err
	}
	a, err := calc.Round(p, mode)
	if err != nil {
		return Money{}, err
	}
	precision := m.precision
	return m.Inherit(func(o *Options) {
		o.Currency = quote.Code()
		o.Amount = a
		o.Precision = &precision
	})
}

func (m Money) assertSameCurrency(b Money) error {
	if !m.HasSameCurrencyAs(b) {
		return fmt.Errorf("%w: %v != %v", ErrCurrencyMismatch, m.curr, b.curr)
	}
	return nil
}
