// Package calc implements integer arithmetic on minor units together with
// the overflow predicates and rounding policies used by the money values.
//
// Amounts are int64 values restricted to the safe integer range
// [-MaxSafeInteger, MaxSafeInteger]. Products and quotients are computed as
// exact [decimal.Decimal] values and only become integers again after a
// [RoundingMode] has been applied.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/govalues/decimal"
)

// MaxSafeInteger is the largest magnitude an amount may have.
const MaxSafeInteger int64 = 1<<53 - 1

var (
	ErrOverflow       = errors.New("overflow")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNotFinite      = errors.New("not a finite number")
)

var maxSafe = decimal.MustNew(MaxSafeInteger, 0)

// InRange reports whether a lies in the safe integer range.
func InRange(a int64) bool {
	return -MaxSafeInteger <= a && a <= MaxSafeInteger
}

// Add returns a + b.
// Callers are expected to check [AdditionOverflows] first.
func Add(a, b int64) int64 {
	return a + b
}

// Subtract returns a - b.
// Callers are expected to check [SubtractionOverflows] first.
func Subtract(a, b int64) int64 {
	return a - b
}

// Modulo returns the remainder of a / b with the sign of a.
// Modulo panics if b is zero.
func Modulo(a, b int64) int64 {
	return a % b
}

// Multiply returns the exact product a × b.
func Multiply(a int64, b decimal.Decimal) (decimal.Decimal, error) {
	d, err := decimal.New(a, 0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	p, err := d.Mul(b)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("computing [%v * %v]: %w", a, b, ErrOverflow)
	}
	return p, nil
}

// Divide returns the quotient a ÷ b, rounded to the precision of
// [decimal.Decimal] when it is not exact.
func Divide(a int64, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("computing [%v / %v]: %w", a, b, ErrDivisionByZero)
	}
	d, err := decimal.New(a, 0)
	if err != nil {
		return decimal.Decimal{}, err
	}
	q, err := d.Quo(b)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("computing [%v / %v]: %w", a, b, ErrOverflow)
	}
	return q, nil
}

// Floor returns the largest integer not greater than x.
func Floor(x decimal.Decimal) decimal.Decimal {
	return x.Floor(0)
}

// AdditionOverflows reports whether a + b leaves the safe integer range.
func AdditionOverflows(a, b int64) bool {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return true
	}
	return !InRange(a + b)
}

// SubtractionOverflows reports whether a - b leaves the safe integer range.
func SubtractionOverflows(a, b int64) bool {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return true
	}
	return !InRange(a - b)
}

// MultiplicationOverflows reports whether a × b leaves the safe integer
// range. A zero operand never overflows.
func MultiplicationOverflows(a int64, b decimal.Decimal) bool {
	if a == 0 || b.IsZero() {
		return false
	}
	if !InRange(a) {
		return true
	}
	// |b| > MaxSafeInteger / |a|
	limit, err := maxSafe.Quo(decimal.MustNew(abs(a), 0))
	if err != nil {
		return true
	}
	return b.Abs().Cmp(limit) > 0
}

// DivisionOverflows reports whether a ÷ b cannot be represented in the safe
// integer range. Division by zero always overflows.
func DivisionOverflows(a int64, b decimal.Decimal) bool {
	if b.IsZero() {
		return true
	}
	if a == 0 {
		return false
	}
	if !InRange(a) {
		return true
	}
	q, err := decimal.MustNew(a, 0).Quo(b)
	if err != nil {
		return true
	}
	return q.Abs().Cmp(maxSafe) > 0
}

// Pow10 returns 10^n as an exact decimal.
// Negative exponents are supported down to -[decimal.MaxScale].
func Pow10(n int) (decimal.Decimal, error) {
	switch {
	case n < -decimal.MaxScale:
		return decimal.Decimal{}, fmt.Errorf("computing 10^%v: %w", n, ErrOverflow)
	case n < 0:
		return decimal.New(1, -n)
	case n >= decimal.MaxPrec:
		return decimal.Decimal{}, fmt.Errorf("computing 10^%v: %w", n, ErrOverflow)
	}
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return decimal.New(p, 0)
}

// FromFloat converts a finite float to the shortest decimal that
// round-trips to the same float.
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w", f, ErrNotFinite)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	d, err := decimal.Parse(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v: %w", f, ErrOverflow)
	}
	return d, nil
}

func abs(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}
