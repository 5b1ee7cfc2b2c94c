package calc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/govalues/decimal"
)

// RoundingMode names a policy that maps a real number to an integer.
// The string value of every mode is equal to its name, so modes can be
// exchanged as plain strings between flavors and over the wire.
type RoundingMode string

const (
	HalfEven         RoundingMode = "HALF_EVEN"           // ties go to the even neighbour
	HalfOdd          RoundingMode = "HALF_ODD"            // ties go to the odd neighbour
	HalfUp           RoundingMode = "HALF_UP"             // ties go toward positive infinity
	HalfDown         RoundingMode = "HALF_DOWN"           // ties go toward negative infinity
	HalfTowardsZero  RoundingMode = "HALF_TOWARDS_ZERO"   // ties are truncated
	HalfAwayFromZero RoundingMode = "HALF_AWAY_FROM_ZERO" // ties move away from zero
	Down             RoundingMode = "DOWN"                // always floor
)

// DefaultRoundingMode is used whenever an operation is not given a mode.
const DefaultRoundingMode = HalfEven

// ErrUnknownRoundingMode is returned for a mode missing from the policy table.
var ErrUnknownRoundingMode = errors.New("unknown rounding mode")

var modes = []RoundingMode{
	HalfEven,
	HalfOdd,
	HalfUp,
	HalfDown,
	HalfTowardsZero,
	HalfAwayFromZero,
	Down,
}

type policy func(x decimal.Decimal) (decimal.Decimal, error)

var policies = map[RoundingMode]policy{
	HalfEven:         roundHalfEven,
	HalfOdd:          roundHalfOdd,
	HalfUp:           roundHalfUp,
	HalfDown:         roundHalfDown,
	HalfTowardsZero:  roundHalfTowardsZero,
	HalfAwayFromZero: roundHalfAwayFromZero,
	Down:             roundDown,
}

var (
	one  = decimal.MustNew(1, 0)
	half = decimal.MustNew(5, 1)
)

// Modes returns all rounding modes in a stable order.
func Modes() []RoundingMode {
	return append([]RoundingMode(nil), modes...)
}

// ParseRoundingMode converts a string to a rounding mode.
// The input is matched case-insensitively against the mode names, so both
// "HALF_UP" and "half_up" are accepted.
func ParseRoundingMode(s string) (RoundingMode, error) {
	m := RoundingMode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("parsing %q: %w", s, ErrUnknownRoundingMode)
	}
	return m, nil
}

// Valid reports whether the mode is present in the policy table.
func (m RoundingMode) Valid() bool {
	_, ok := policies[m]
	return ok
}

// String implements the [fmt.Stringer] interface.
func (m RoundingMode) String() string {
	return string(m)
}

// Round maps x to an integer using the given mode.
// An empty mode selects [DefaultRoundingMode].
//
// Round returns an error if:
//   - the mode is unknown;
//   - the rounded value lies outside of the safe integer range.
func Round(x decimal.Decimal, mode RoundingMode) (int64, error) {
	if mode == "" {
		mode = DefaultRoundingMode
	}
	p, ok := policies[mode]
	if !ok {
		return 0, fmt.Errorf("rounding %v with %q: %w", x, mode, ErrUnknownRoundingMode)
	}
	r, err := p(x)
	if err != nil {
		return 0, fmt.Errorf("rounding %v with %v: %w", x, mode, err)
	}
	whole, _, ok := r.Int64(0)
	if !ok || !InRange(whole) {
		return 0, fmt.Errorf("rounding %v with %v: %w", x, mode, ErrOverflow)
	}
	return whole, nil
}

// RoundFloat is like [Round] but accepts a native float.
func RoundFloat(x float64, mode RoundingMode) (int64, error) {
	d, err := FromFloat(x)
	if err != nil {
		return 0, err
	}
	return Round(d, mode)
}

// isHalf reports whether |x| mod 1 == 0.5.
func isHalf(x decimal.Decimal) (bool, error) {
	a := x.Abs()
	f, err := a.Sub(a.Trunc(0))
	if err != nil {
		return false, err
	}
	return f.Cmp(half) == 0, nil
}

// isEven reports whether an integral decimal is even.
func isEven(x decimal.Decimal) bool {
	whole, _, _ := x.Int64(0)
	return whole%2 == 0
}

// roundHalfUp is the native rounding of the host: nearest integer,
// with ties going toward positive infinity.
func roundHalfUp(x decimal.Decimal) (decimal.Decimal, error) {
	fl := x.Floor(0)
	f, err := x.Sub(fl)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if f.Cmp(half) >= 0 {
		return fl.Add(one)
	}
	return fl, nil
}

func roundHalfEven(x decimal.Decimal) (decimal.Decimal, error) {
	return roundHalfParity(x, true)
}

func roundHalfOdd(x decimal.Decimal) (decimal.Decimal, error) {
	return roundHalfParity(x, false)
}

// roundHalfParity steps a tie down by one when the native result has the
// wrong parity. Native ties always land on the upper neighbour, so the
// lower neighbour has the other parity.
func roundHalfParity(x decimal.Decimal, even bool) (decimal.Decimal, error) {
	r, err := roundHalfUp(x)
	if err != nil {
		return decimal.Decimal{}, err
	}
	tie, err := isHalf(x)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if tie && isEven(r) != even {
		return r.Sub(one)
	}
	return r, nil
}

func roundHalfDown(x decimal.Decimal) (decimal.Decimal, error) {
	switch tie, err := isHalf(x); {
	case err != nil:
		return decimal.Decimal{}, err
	case tie:
		return x.Floor(0), nil
	}
	return roundHalfUp(x)
}

func roundHalfTowardsZero(x decimal.Decimal) (decimal.Decimal, error) {
	switch tie, err := isHalf(x); {
	case err != nil:
		return decimal.Decimal{}, err
	case tie:
		return x.Trunc(0), nil
	}
	return roundHalfUp(x)
}

func roundHalfAwayFromZero(x decimal.Decimal) (decimal.Decimal, error) {
	switch tie, err := isHalf(x); {
	case err != nil:
		return decimal.Decimal{}, err
	case tie:
		c := x.Abs().Ceil(0)
		if x.IsNeg() {
			c = c.Neg()
		}
		return c, nil
	}
	return roundHalfUp(x)
}

func roundDown(x decimal.Decimal) (decimal.Decimal, error) {
	return x.Floor(0), nil
}
