package soldi

import (
	"fmt"

	"github.com/govalues/decimal"
)

func argError(i int, want string, got any) error {
	if got == nil {
		return fmt.Errorf("%w: argument %v: missing %v", ErrInvalidArgument, i, want)
	}
	return fmt.Errorf("%w: argument %v: got %T, want %v", ErrInvalidArgument, i, got, want)
}

func arg(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

// MoneyArg returns argument i of a method call as a value.
func MoneyArg(args []any, i int) (Money, error) {
	if m, ok := arg(args, i).(Money); ok {
		return m, nil
	}
	return Money{}, argError(i, "Money", arg(args, i))
}

// FloatArg returns argument i of a method call as a float.
// Any Go number and [decimal.Decimal] are accepted.
func FloatArg(args []any, i int) (float64, error) {
	switch v := arg(args, i).(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, nil
	}
	return 0, argError(i, "number", arg(args, i))
}

// IntArg returns argument i of a method call as an int.
// Floats are accepted when they hold a whole number.
func IntArg(args []any, i int) (int, error) {
	switch v := arg(args, i).(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, argError(i, "integer", arg(args, i))
}

// StringArg returns argument i of a method call as a string.
func StringArg(args []any, i int) (string, error) {
	switch v := arg(args, i).(type) {
	case string:
		return v, nil
	case Currency:
		return v.Code(), nil
	}
	return "", argError(i, "string", arg(args, i))
}

// ModesArg returns the optional rounding mode at argument i of a method call.
// A missing or nil argument yields no mode.
func ModesArg(args []any, i int) ([]RoundingMode, error) {
	switch v := arg(args, i).(type) {
	case nil:
		return nil, nil
	case RoundingMode:
		return []RoundingMode{v}, nil
	case string:
		return []RoundingMode{RoundingMode(v)}, nil
	}
	return nil, argError(i, "rounding mode", arg(args, i))
}

// RatiosArg returns the ratios of an allocation starting at argument i.
// Either a single slice of numbers or several number arguments are accepted.
func RatiosArg(args []any, i int) ([]float64, error) {
	switch v := arg(args, i).(type) {
	case []float64:
		return v, nil
	case []int:
		r := make([]float64, len(v))
		for j, n := range v {
			r[j] = float64(n)
		}
		return r, nil
	case nil:
		return nil, nil
	}
	r := make([]float64, 0, len(args)-i)
	for j := i; j < len(args); j++ {
		f, err := FloatArg(args, j)
		if err != nil {
			return nil, err
		}
		r = append(r, f)
	}
	return r, nil
}

// RatesArg returns argument i of a method call as a rate table.
func RatesArg(args []any, i int) (map[string]float64, error) {
	switch v := arg(args, i).(type) {
	case map[string]float64:
		return v, nil
	case map[string]any:
		r := make(map[string]float64, len(v))
		for k := range v {
			f, err := FloatArg([]any{v[k]}, 0)
			if err != nil {
				return nil, fmt.Errorf("rate %q: %w", k, err)
			}
			r[k] = f
		}
		return r, nil
	case nil:
		return nil, nil
	}
	return nil, argError(i, "rate table", arg(args, i))
}
