package soldi

import "fmt"

// HasSameCurrencyAs returns true if values are denominated in the same currency.
func (m Money) HasSameCurrencyAs(b Money) bool {
	return m.curr == b.curr
}

// HasSamePrecisionAs returns true if values have the same resolved precision.
func (m Money) HasSamePrecisionAs(b Money) bool {
	return m.precision == b.precision
}

// HasSameAmountAs returns true if values are numerically equal after their
// precisions are normalized. Currencies are ignored.
func (m Money) HasSameAmountAs(b Money) bool {
	return m.Unit().Cmp(b.Unit()) == 0
}

// IsEqualTo returns true if values have the same currency and are
// numerically equal after their precisions are normalized.
func (m Money) IsEqualTo(b Money) bool {
	return m.HasSameCurrencyAs(b) && m.HasSameAmountAs(b)
}

// Cmp compares values and returns:
//
//	-1 if m < b
//	 0 if m = b
//	+1 if m > b
//
// Values with different precisions are compared exactly.
//
// Cmp returns an error if values are denominated in different currencies.
func (m Money) Cmp(b Money) (int, error) {
	if err := m.assertSameCurrency(b); err != nil {
		return 0, fmt.Errorf("comparing [%v] and [%v]: %w", m, b, err)
	}
	return m.Unit().Cmp(b.Unit()), nil
}

// IsLessThan returns true if m < b.
//
// IsLessThan returns an error if values are denominated in different currencies.
func (m Money) IsLessThan(b Money) (bool, error) {
	c, err := m.Cmp(b)
	return c < 0, err
}

// IsLessThanOrEqualTo returns true if m <= b.
//
// IsLessThanOrEqualTo returns an error if values are denominated in different currencies.
func (m Money) IsLessThanOrEqualTo(b Money) (bool, error) {
	c, err := m.Cmp(b)
	return err == nil && c <= 0, err
}

// IsGreaterThan returns true if m > b.
//
// IsGreaterThan returns an error if values are denominated in different currencies.
func (m Money) IsGreaterThan(b Money) (bool, error) {
	c, err := m.Cmp(b)
	return c > 0, err
}

// IsGreaterThanOrEqualTo returns true if m >= b.
//
// IsGreaterThanOrEqualTo returns an error if values are denominated in different currencies.
func (m Money) IsGreaterThanOrEqualTo(b Money) (bool, error) {
	c, err := m.Cmp(b)
	return err == nil && c >= 0, err
}

// IsZero returns true if the amount is 0.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsPositive returns true if the amount is 0 or greater.
func (m Money) IsPositive() bool {
	return m.amount >= 0
}

// IsGreaterThanZero returns true if the amount is greater than 0.
func (m Money) IsGreaterThanZero() bool {
	return m.amount > 0
}

// IsNegative returns true if the amount is less than 0.
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// HasSubUnits returns true if the value is not a whole number of major units.
func (m Money) HasSubUnits() bool {
	return !m.Unit().IsInt()
}

// Minimum returns the smallest of the values.
// If several values are equal, the first of them is returned.
//
// Minimum returns an error if:
//   - no values are given;
//   - values are denominated in different currencies.
func Minimum(ms ...Money) (Money, error) {
	return pick(ms, -1)
}

// Maximum returns the largest of the values.
// If several values are equal, the first of them is returned.
//
// Maximum returns an error if:
//   - no values are given;
//   - values are denominated in different currencies.
func Maximum(ms ...Money) (Money, error) {
	return pick(ms, 1)
}

// pick returns the first value m such that no other value compares to m
// with the sign of want.
func pick(ms []Money, want int) (Money, error) {
	if len(ms) == 0 {
		return Money{}, ErrNoValues
	}
	r := ms[0]
	for _, m := range ms[1:] {
		c, err := m.Cmp(r)
		if err != nil {
			return Money{}, err
		}
		if c == want {
			r = m
		}
	}
	return r, nil
}
