package soldi

import (
	"fmt"

	"github.com/govalues/decimal"
)

// ExchangeRate represents a unidirectional exchange rate between two currencies.
// This type is designed to be safe for concurrent use by multiple goroutines.
type ExchangeRate struct {
	base  Currency        // currency being exchanged
	quote Currency        // currency being obtained in exchange for the base currency
	value decimal.Decimal // how many units of quote currency are needed to exchange for 1 unit of the base currency
}

// NewExchRate returns a new exchange rate between the base and quote currencies.
//
// NewExchRate returns an error if:
//   - either currency is empty;
//   - the rate is not positive;
//   - the currencies are equal and the rate is not 1.
func NewExchRate(base, quote Currency, rate decimal.Decimal) (ExchangeRate, error) {
	if base == "" || quote == "" {
		return ExchangeRate{}, ErrMissingCurrency
	}
	if !rate.IsPos() {
		return ExchangeRate{}, fmt.Errorf("%w: %v/%v %v must be positive", ErrInvalidRate, base, quote, rate)
	}
	if base == quote && rate.Cmp(one) != 0 {
		return ExchangeRate{}, fmt.Errorf("%w: %v/%v %v must be equal to 1", ErrInvalidRate, base, quote, rate)
	}
	return ExchangeRate{base: base, quote: quote, value: rate}, nil
}

// ParseExchRate converts currency and decimal strings to an exchange rate.
// See also methods [ParseCurr] and [decimal.Parse].
func ParseExchRate(base, quote, rate string) (ExchangeRate, error) {
	b, err := ParseCurr(base)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("base currency parsing: %w", err)
	}
	q, err := ParseCurr(quote)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("quote currency parsing: %w", err)
	}
	d, err := decimal.Parse(rate)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("rate parsing: %w", err)
	}
	r, err := NewExchRate(b, q, d)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("rate construction: %w", err)
	}
	return r, nil
}

// MustParseExchRate is like [ParseExchRate] but panics if any of the strings cannot be parsed.
// It simplifies safe initialization of global variables holding exchange rates.
func MustParseExchRate(base, quote, rate string) ExchangeRate {
	r, err := ParseExchRate(base, quote, rate)
	if err != nil {
		panic(fmt.Sprintf("ParseExchRate(%q, %q, %q) failed: %v", base, quote, rate, err))
	}
	return r
}

// Base returns the currency being exchanged.
func (r ExchangeRate) Base() Currency {
	return r.base
}

// Quote returns the currency being obtained in exchange for the base currency.
func (r ExchangeRate) Quote() Currency {
	return r.quote
}

// Decimal returns the rate as a decimal.
func (r ExchangeRate) Decimal() decimal.Decimal {
	return r.value
}

// CanConv returns true if [ExchangeRate.Conv] can be used to convert the given value.
func (r ExchangeRate) CanConv(m Money) bool {
	return m.Currency() == r.Base() &&
		r.Quote() != "" &&
		r.value.IsPos()
}

// Conv returns value m converted from the base currency to the quote currency.
// The amount is multiplied by the rate and rounded with the given mode;
// the result keeps the precision of m.
//
// Conv returns an error if:
//   - the currency of m is not the base currency;
//   - more than one rounding mode is provided;
//   - the result leaves the safe integer range.
func (r ExchangeRate) Conv(m Money, mode ...RoundingMode) (Money, error) {
	c, err := r.conv(m, mode)
	if err != nil {
		return Money{}, fmt.Errorf("converting %v with %v: %w", m, r, err)
	}
	return c, nil
}

func (r ExchangeRate) conv(m Money, modes []RoundingMode) (Money, error) {
	if !r.CanConv(m) {
		return Money{}, fmt.Errorf("%w: %v != %v", ErrCurrencyMismatch, m.Currency(), r.Base())
	}
	mode, err := pickMode(modes)
	if err != nil {
		return Money{}, err
	}
	return m.exch(r.quote, r.value, mode)
}

// Inv returns the inverse of the exchange rate.
//
// Inv returns an error if the inverse cannot be represented.
func (r ExchangeRate) Inv() (ExchangeRate, error) {
	d, err := one.Quo(r.value)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("inverting %v: %w", r, err)
	}
	return NewExchRate(r.quote, r.base, d)
}

// SameCurr returns true if exchange rates are denominated in the same base
// and quote currencies.
// See also methods [ExchangeRate.Base] and [ExchangeRate.Quote].
func (r ExchangeRate) SameCurr(q ExchangeRate) bool {
	return q.Base() == r.Base() && q.Quote() == r.Quote()
}

// IsOne returns:
//
//	true  if r == 1
//	false otherwise
func (r ExchangeRate) IsOne() bool {
	return r.value.Cmp(one) == 0
}

// String method implements the [fmt.Stringer] interface and returns a string
// representation of the exchange rate.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r ExchangeRate) String() string {
	return r.Base().String() + "/" + r.Quote().String() + " " + r.value.String()
}
