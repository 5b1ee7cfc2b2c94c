package soldi

import (
	"fmt"
	"math/big"

	"github.com/govalues/decimal"
	"github.com/nick-codes/soldi/calc"
)

// Allocate distributes value m into buckets proportional to the ratios.
// Every bucket receives the floor of its exact share; the remaining minor
// units are then handed out one at a time, in index order, to buckets with
// a positive ratio. The sum of the buckets always equals m and every
// bucket has the currency and precision of m.
// See also method [Money.Split].
//
// Allocate returns an error if:
//   - no ratios are given;
//   - a ratio is negative or not a finite number;
//   - no ratio is positive.
func (m Money) Allocate(ratios ...float64) ([]Money, error) {
	r, err := m.allocate(ratios)
	if err != nil {
		return nil, fmt.Errorf("allocating %v by %v: %w", m, ratios, err)
	}
	return r, nil
}

// AllocateDecimal is like [Money.Allocate] but accepts exact ratios.
func (m Money) AllocateDecimal(ratios ...decimal.Decimal) ([]Money, error) {
	r, err := m.allocateDecimal(ratios)
	if err != nil {
		return nil, fmt.Errorf("allocating %v by %v: %w", m, ratios, err)
	}
	return r, nil
}

func (m Money) allocate(ratios []float64) ([]Money, error) {
	weights := make([]decimal.Decimal, len(ratios))
	for i, f := range ratios {
		d, err := calc.FromFloat(f)
		if err != nil {
			return nil, fmt.Errorf("%w: ratio %v: %w", ErrInvalidAllocation, f, err)
		}
		weights[i] = d
	}
	return m.allocateDecimal(weights)
}

func (m Money) allocateDecimal(ratios []decimal.Decimal) ([]Money, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("%w: at least one bucket is required", ErrInvalidAllocation)
	}
	positive := false
	for _, r := range ratios {
		if r.IsNeg() {
			return nil, fmt.Errorf("%w: ratio %v is negative", ErrInvalidAllocation, r)
		}
		if r.IsPos() {
			positive = true
		}
	}
	if !positive {
		return nil, fmt.Errorf("%w: at least one ratio must be positive", ErrInvalidAllocation)
	}

	parts := shares(m.amount, ratios)

	// Remainder
	remainder := m.amount
	for _, s := range parts {
		remainder -= s
	}
	for i := 0; remainder > 0; i = (i + 1) % len(parts) {
		if ratios[i].IsPos() {
			parts[i]++
			remainder--
		}
	}

	res := make([]Money, len(parts))
	for i, s := range parts {
		var err error
		res[i], err = m.Inherit(func(o *Options) {
			o.Amount = s
		})
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// shares returns floor(amount × ratio / total) for every ratio.
// The ratios are scaled to integers at a common scale so that the shares
// are exact and never exceed the amount in magnitude.
func shares(amount int64, ratios []decimal.Decimal) []int64 {
	scale := 0
	for _, r := range ratios {
		scale = max(scale, r.Scale())
	}
	ten := big.NewInt(10)
	weights := make([]*big.Int, len(ratios))
	total := new(big.Int)
	for i, r := range ratios {
		w := new(big.Int).SetUint64(r.Coef())
		f := new(big.Int).Exp(ten, big.NewInt(int64(scale-r.Scale())), nil)
		w.Mul(w, f)
		weights[i] = w
		total.Add(total, w)
	}
	a := big.NewInt(amount)
	res := make([]int64, len(ratios))
	for i, w := range weights {
		// Euclidean division floors for a positive divisor.
		q := new(big.Int).Mul(a, w)
		q.Div(q, total)
		res[i] = q.Int64()
	}
	return res
}

// Split returns a slice of values that sum up to value m, ensuring the
// parts are as equal as possible.
// The remainder is distributed among the first parts of the slice.
// See also method [Money.Allocate].
//
// Split returns an error if the number of parts is not a positive integer.
func (m Money) Split(parts int) ([]Money, error) {
	r, err := m.split(parts)
	if err != nil {
		return nil, fmt.Errorf("splitting %v into %v parts: %w", m, parts, err)
	}
	return r, nil
}

func (m Money) split(parts int) ([]Money, error) {
	if parts <= 0 {
		return nil, fmt.Errorf("%w: number of parts must be positive", ErrInvalidAllocation)
	}
	ratios := make([]decimal.Decimal, parts)
	for i := range ratios {
		ratios[i] = one
	}
	return m.allocateDecimal(ratios)
}
