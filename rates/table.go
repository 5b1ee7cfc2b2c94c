package rates

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a rate table document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Table holds exchange rates quoted against a base currency: one unit of
// Base is worth Rates[code] units of code.
type Table struct {
	Base  string             `json:"base" yaml:"base" toml:"base"`
	Rates map[string]float64 `json:"rates" yaml:"rates" toml:"rates"`
}

// DetectFormat determines the format of a file from its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads a table from a file, choosing the format by extension.
func Load(path string) (Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Table{}, fmt.Errorf("loading %v: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("loading %v: %w", path, err)
	}
	defer f.Close()
	t, err := Decode(f, format)
	if err != nil {
		return Table{}, fmt.Errorf("loading %v: %w", path, err)
	}
	return t, nil
}

// Decode reads a table in the given format and validates it.
func Decode(r io.Reader, format Format) (Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Table{}, err
	}
	t, err := parseContent(content, format)
	if err != nil {
		return Table{}, err
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func parseContent(content []byte, format Format) (Table, error) {
	var t Table
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &t); err != nil {
			return Table{}, fmt.Errorf("%w: YAML parse error: %w", ErrInvalidTable, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(content, &t); err != nil {
			return Table{}, fmt.Errorf("%w: TOML parse error: %w", ErrInvalidTable, err)
		}
	case FormatJSON:
		if !gjson.ValidBytes(content) {
			return Table{}, fmt.Errorf("%w: malformed JSON", ErrInvalidTable)
		}
		doc := gjson.ParseBytes(content)
		t.Base = doc.Get("base").String()
		t.Rates = make(map[string]float64)
		var bad string
		doc.Get("rates").ForEach(func(k, v gjson.Result) bool {
			if v.Type != gjson.Number {
				bad = k.String()
				return false
			}
			t.Rates[k.String()] = v.Float()
			return true
		})
		if bad != "" {
			return Table{}, fmt.Errorf("%w: rate %q is not a number", ErrInvalidTable, bad)
		}
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return t, nil
}

// Validate checks that the table has a base currency and that every rate
// is a positive finite number.
func (t Table) Validate() error {
	if t.Base == "" {
		return fmt.Errorf("%w: missing base currency", ErrInvalidTable)
	}
	for code, r := range t.Rates {
		if code == "" {
			return fmt.Errorf("%w: empty currency code", ErrInvalidTable)
		}
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return fmt.Errorf("%w: rate %v for %v must be positive", ErrInvalidTable, r, code)
		}
		if code == t.Base && r != 1 {
			return fmt.Errorf("%w: base rate %v must be 1", ErrInvalidTable, r)
		}
	}
	return nil
}

// quote returns the worth of one base unit in currency code.
func (t Table) quote(code string) (float64, bool) {
	if code == t.Base {
		return 1, true
	}
	r, ok := t.Rates[code]
	return r, ok
}

// Rate implements [Source].
// Rates between two non-base currencies are crossed through the base.
func (t Table) Rate(ctx context.Context, from, to string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if from == to {
		return 1, nil
	}
	f, ok := t.quote(from)
	if !ok {
		return 0, fmt.Errorf("%w: %v/%v", ErrRateNotFound, from, to)
	}
	q, ok := t.quote(to)
	if !ok {
		return 0, fmt.Errorf("%w: %v/%v", ErrRateNotFound, from, to)
	}
	return q / f, nil
}

// Codes returns the base currency and all quoted currencies in sorted order.
func (t Table) Codes() []string {
	codes := []string{t.Base}
	for code := range t.Rates {
		if code != t.Base {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

// For returns the rates from currency from to every other currency of the
// table, in the form accepted by [soldi.Money.Exchange].
func (t Table) For(from string) (map[string]float64, error) {
	res := make(map[string]float64, len(t.Rates))
	for _, code := range t.Codes() {
		if code == from {
			continue
		}
		r, err := t.Rate(context.Background(), from, code)
		if err != nil {
			return nil, err
		}
		res[code] = r
	}
	return res, nil
}
