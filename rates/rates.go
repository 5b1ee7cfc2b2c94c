// Package rates provides exchange rate sources for monetary values.
//
// A [Table] holds rates quoted against a single base currency and can be
// loaded from YAML, TOML or JSON files. A [Payload] extracts a rate from an
// arbitrary JSON document using a property path. Both implement [Source],
// which [Convert] uses to exchange a value. No network I/O is performed;
// callers fetch documents themselves.
package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/nick-codes/soldi"
)

var (
	ErrRateNotFound   = errors.New("rate not found")
	ErrInvalidTable   = errors.New("invalid rate table")
	ErrInvalidPayload = errors.New("invalid rate payload")
	ErrUnknownFormat  = errors.New("unknown format")
	ErrMissingSource  = errors.New("missing rate source")
)

// Source looks up how many units of currency to are worth one unit of
// currency from.
type Source interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// SourceFunc adapts a function to the [Source] interface.
type SourceFunc func(ctx context.Context, from, to string) (float64, error)

// Rate calls f.
func (f SourceFunc) Rate(ctx context.Context, from, to string) (float64, error) {
	return f(ctx, from, to)
}

// Convert exchanges value m to currency to with the rate reported by src.
// Values already in currency to are returned unchanged without consulting
// the source.
// See also [soldi.Money.Exchange].
func Convert(ctx context.Context, m soldi.Money, to string, src Source, mode ...soldi.RoundingMode) (soldi.Money, error) {
	from := m.Currency().Code()
	if from == to {
		return m, nil
	}
	if src == nil {
		return soldi.Money{}, fmt.Errorf("converting %v to %v: %w", m, to, ErrMissingSource)
	}
	rate, err := src.Rate(ctx, from, to)
	if err != nil {
		return soldi.Money{}, fmt.Errorf("converting %v to %v: %w", m, to, err)
	}
	return m.Exchange(to, map[string]float64{to: rate}, mode...)
}
