package soldi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

//go:generate go run scripts/precision/codegen.go

// Currency is an opaque currency token, usually an [ISO 4217] alphabetic code.
// The engine never interprets the token except to look up its default
// precision, so any non-empty identifier is accepted.
//
// [ISO 4217]: https://en.wikipedia.org/wiki/ISO_4217
type Currency string

// ErrMissingCurrency is returned when a currency token is empty.
var ErrMissingCurrency = errors.New("missing currency")

// ParseCurr converts a string to a currency.
// Surrounding whitespace is removed, the rest of the token is kept as is.
//
// ParseCurr returns an error if the string is empty.
func ParseCurr(curr string) (Currency, error) {
	s := strings.TrimSpace(curr)
	if s == "" {
		return "", ErrMissingCurrency
	}
	return Currency(s), nil
}

// MustParseCurr is like [ParseCurr] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding currencies.
func MustParseCurr(curr string) Currency {
	c, err := ParseCurr(curr)
	if err != nil {
		panic(fmt.Sprintf("ParseCurr(%q) failed: %v", curr, err))
	}
	return c
}

// Code returns the currency token.
func (c Currency) Code() string {
	return string(c)
}

// String method implements the [fmt.Stringer] interface.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (c Currency) String() string {
	return c.Code()
}

// Precision returns the default number of fractional digits of the minor
// unit of the currency.
// Most currencies use 2 digits; the exceptions are listed in
// scripts/precision/precision_data.csv.
func (c Currency) Precision() int {
	if p, ok := precisionLookup[c]; ok {
		return p
	}
	return defaultPrecision
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseCurr].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (c *Currency) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(text, &s); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", *c, err)
	}
	var err error
	*c, err = ParseCurr(s)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", *c, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Code())
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// See also constructor [ParseCurr].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (c *Currency) UnmarshalText(text []byte) error {
	var err error
	*c, err = ParseCurr(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", *c, err)
	}
	return nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (c Currency) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}
