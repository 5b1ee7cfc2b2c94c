package soldi

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/govalues/decimal"
	"github.com/nick-codes/soldi/calc"
)

var (
	ErrNonIntegerAmount  = errors.New("amount is not an integer number of minor units")
	ErrAmountConflict    = errors.New("unit and amount disagree")
	ErrInvalidPrecision  = errors.New("invalid precision")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInvalidAllocation = errors.New("invalid allocation")
	ErrMissingRates      = errors.New("missing exchange rates")
	ErrInvalidRate       = errors.New("invalid exchange rate")
	ErrInvalidPercentage = errors.New("invalid percentage")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNoValues          = errors.New("no values")
	ErrReservedProperty  = errors.New("reserved property")

	// ErrOverflow is returned when a result leaves the safe integer range.
	ErrOverflow = calc.ErrOverflow
	// ErrDivisionByZero is returned by Divide when the divisor is zero.
	ErrDivisionByZero = calc.ErrDivisionByZero
	// ErrNotFinite is returned for NaN and infinite factors and ratios.
	ErrNotFinite = calc.ErrNotFinite
	// ErrUnknownRoundingMode is returned for a mode outside of [RoundingModes].
	ErrUnknownRoundingMode = calc.ErrUnknownRoundingMode
)

// MaxPrecision is the largest precision a value may carry.
const MaxPrecision = decimal.MaxScale

// PrivatePrefix marks properties that are excluded from [Money.ToObject].
const PrivatePrefix = "_"

// RoundingMode names one of the policies used when a result has to be
// turned back into minor units.
type RoundingMode = calc.RoundingMode

const (
	HalfEven         = calc.HalfEven
	HalfOdd          = calc.HalfOdd
	HalfUp           = calc.HalfUp
	HalfDown         = calc.HalfDown
	HalfTowardsZero  = calc.HalfTowardsZero
	HalfAwayFromZero = calc.HalfAwayFromZero
	Down             = calc.Down

	DefaultRoundingMode = calc.DefaultRoundingMode
)

// RoundingModes returns the names of all rounding modes.
func RoundingModes() []RoundingMode {
	return calc.Modes()
}

// ParseRoundingMode converts a mode name, in any case, to a rounding mode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	return calc.ParseRoundingMode(s)
}

// Money is an immutable monetary value: an integer count of minor units,
// a currency and a precision.
// The value represented is amount / 10^precision units of the currency.
//
// Every operation returns a new value of the same flavor as its receiver.
// Money is designed to be safe for concurrent use by multiple goroutines.
type Money struct {
	curr      Currency
	amount    int64
	precision int
	explicit  bool           // precision differs from the currency default
	props     map[string]any // properties attached by layer constructors
	flavor    *Flavor
}

// Options holds construction parameters of a value.
// Amount is expressed in minor units. Unit, when set, is expressed in
// major units and takes precedence over Amount.
// Precision overrides the currency default.
// Extra carries arbitrary options for layer initializers and constructors.
type Options struct {
	Currency  string
	Amount    int64
	Unit      *decimal.Decimal
	Precision *int
	Extra     map[string]any
}

// WithPrecision returns a copy of the options with an explicit precision.
func (o Options) WithPrecision(p int) Options {
	o.Precision = &p
	return o
}

// WithUnit returns a copy of the options with an amount in major units.
func (o Options) WithUnit(u decimal.Decimal) Options {
	o.Unit = &u
	return o
}

// WithExtra returns a copy of the options with an extra option set.
func (o Options) WithExtra(name string, value any) Options {
	o.Extra = maps.Clone(o.Extra)
	if o.Extra == nil {
		o.Extra = make(map[string]any)
	}
	o.Extra[name] = value
	return o
}

// WithUnitFloat returns a copy of the options with an amount in major units
// given as a float. The float is read as its shortest decimal form.
//
// WithUnitFloat returns an error if the float is not finite.
func (o Options) WithUnitFloat(f float64) (Options, error) {
	u, err := UnitFloat(f)
	if err != nil {
		return Options{}, err
	}
	return o.WithUnit(u), nil
}

// UnitFloat converts a float amount in major units to a decimal suitable
// for [Options.Unit].
func UnitFloat(f float64) (decimal.Decimal, error) {
	return calc.FromFloat(f)
}

// Get returns an extra option.
func (o Options) Get(name string) (any, bool) {
	v, ok := o.Extra[name]
	return v, ok
}

func (o Options) clone() Options {
	o.Extra = maps.Clone(o.Extra)
	return o
}

// New returns a value of the root flavor.
// See [Flavor.New] for the rules applied to the options.
func New(opts Options) (Money, error) {
	return Base().New(opts)
}

// MustNew is like [New] but panics if the value cannot be constructed.
// It simplifies safe initialization of global variables holding values.
func MustNew(opts Options) Money {
	m, err := New(opts)
	if err != nil {
		panic(fmt.Sprintf("New(%+v) failed: %v", opts, err))
	}
	return m
}

// newMoney validates options and builds the bare value.
func newMoney(f *Flavor, opts Options) (Money, error) {
	// Currency
	curr, err := ParseCurr(opts.Currency)
	if err != nil {
		return Money{}, fmt.Errorf("parsing currency: %w", err)
	}
	m := Money{curr: curr, precision: curr.Precision(), flavor: f}

	// Precision
	if opts.Precision != nil {
		p := *opts.Precision
		if p < 0 || p > MaxPrecision {
			return Money{}, fmt.Errorf("precision %v: %w", p, ErrInvalidPrecision)
		}
		m.precision = p
		m.explicit = p != curr.Precision()
	}

	// Amount
	amount := opts.Amount
	if opts.Unit != nil {
		a, err := unitToAmount(*opts.Unit, m.precision)
		if err != nil {
			return Money{}, fmt.Errorf("converting unit %v: %w", *opts.Unit, err)
		}
		if opts.Amount != 0 && opts.Amount != a {
			return Money{}, fmt.Errorf("unit %v and amount %v: %w", *opts.Unit, opts.Amount, ErrAmountConflict)
		}
		amount = a
	}
	if !calc.InRange(amount) {
		return Money{}, fmt.Errorf("amount %v: %w", amount, ErrOverflow)
	}
	m.amount = amount
	return m, nil
}

// unitToAmount converts major units to minor units at the given precision.
func unitToAmount(u decimal.Decimal, precision int) (int64, error) {
	if u.IsZero() {
		return 0, nil
	}
	d := u.Trim(precision)
	if d.Scale() > precision {
		return 0, ErrNonIntegerAmount
	}
	d = d.Pad(precision)
	if d.Scale() != precision || d.Coef() > uint64(calc.MaxSafeInteger) {
		return 0, ErrOverflow
	}
	a := int64(d.Coef())
	if d.IsNeg() {
		a = -a
	}
	return a, nil
}

// Inherit constructs a new value of the same flavor from the options of m
// after edit has been applied to them.
// The options passed to edit carry the amount, the currency, the precision
// if it was explicit, and all properties as extra options.
func (m Money) Inherit(edit func(o *Options)) (Money, error) {
	o := m.options()
	if edit != nil {
		edit(&o)
	}
	return m.Flavor().New(o)
}

func (m Money) options() Options {
	o := Options{Currency: string(m.curr), Amount: m.amount}
	if m.explicit {
		p := m.precision
		o.Precision = &p
	}
	if len(m.props) > 0 {
		o.Extra = maps.Clone(m.props)
	}
	return o
}

// Amount returns the number of minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the currency of the value.
func (m Money) Currency() Currency {
	return m.curr
}

// Precision returns the resolved precision: the explicit one when it was
// provided, the currency default otherwise.
func (m Money) Precision() int {
	return m.precision
}

// HasExplicitPrecision reports whether the precision differs from the
// default precision of the currency.
func (m Money) HasExplicitPrecision() bool {
	return m.explicit
}

// Flavor returns the flavor the value was constructed by.
// The zero value belongs to the root flavor.
func (m Money) Flavor() *Flavor {
	if m.flavor == nil {
		return Base()
	}
	return m.flavor
}

// Property returns a property attached by a layer constructor.
func (m Money) Property(name string) (any, bool) {
	v, ok := m.props[name]
	return v, ok
}

// Properties returns a copy of all properties, private ones included.
func (m Money) Properties() map[string]any {
	return maps.Clone(m.props)
}

// Unit returns the value in major units as an exact decimal.
func (m Money) Unit() decimal.Decimal {
	d, err := decimal.New(m.amount, m.precision)
	if err != nil {
		return decimal.Decimal{}
	}
	return d
}

// ToUnit returns the value in major units as a float.
// The result may be inexact, use [Money.Unit] when exactness matters.
func (m Money) ToUnit() float64 {
	f, _ := m.Unit().Float64()
	return f
}

// ToRoundedUnit returns the value in major units rounded to the given
// number of fractional digits.
//
// ToRoundedUnit returns an error if:
//   - digits is negative or greater than [MaxPrecision];
//   - more than one rounding mode is provided;
//   - the rounding mode is unknown.
func (m Money) ToRoundedUnit(digits int, mode ...RoundingMode) (float64, error) {
	f, err := m.toRoundedUnit(digits, mode)
	if err != nil {
		return 0, fmt.Errorf("rounding %v to %v digits: %w", m, digits, err)
	}
	return f, nil
}

func (m Money) toRoundedUnit(digits int, modes []RoundingMode) (float64, error) {
	r, err := pickMode(modes)
	if err != nil {
		return 0, err
	}
	if digits < 0 || digits > MaxPrecision {
		return 0, fmt.Errorf("digits %v: %w", digits, ErrInvalidPrecision)
	}
	if digits >= m.precision {
		f, _ := m.Unit().Float64()
		return f, nil
	}
	p, err := calc.Pow10(digits)
	if err != nil {
		return 0, err
	}
	d, err := m.Unit().Mul(p)
	if err != nil {
		return 0, ErrOverflow
	}
	a, err := calc.Round(d, r)
	if err != nil {
		return 0, err
	}
	u, err := decimal.New(a, digits)
	if err != nil {
		return 0, err
	}
	f, _ := u.Float64()
	return f, nil
}

// ToObject returns the public state of the value: its amount, currency,
// precision when explicit, and every property whose name does not start
// with [PrivatePrefix].
func (m Money) ToObject() map[string]any {
	obj := make(map[string]any, len(m.props)+3)
	for k, v := range m.props {
		if !strings.HasPrefix(k, PrivatePrefix) {
			obj[k] = v
		}
	}
	obj["amount"] = m.amount
	obj["currency"] = m.curr.Code()
	if m.explicit {
		obj["precision"] = m.precision
	}
	return obj
}

// MarshalJSON implements the [json.Marshaler] interface.
// The document is the result of the "toObject" method of the value's
// flavor, so layers overriding it change the serialized form.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	obj, err := m.Call("toObject")
	if err != nil {
		return nil, fmt.Errorf("marshaling %v: %w", m, err)
	}
	return json.Marshal(obj)
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// The value is constructed by its current flavor, or the root flavor if it
// has none. Unknown fields are passed to the flavor as extra options.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("unmarshaling %T: %w", *m, err)
	}
	var opts Options
	for k, raw := range fields {
		var err error
		switch k {
		case "amount":
			err = json.Unmarshal(raw, &opts.Amount)
		case "currency":
			err = json.Unmarshal(raw, &opts.Currency)
		case "precision":
			var p int
			err = json.Unmarshal(raw, &p)
			opts.Precision = &p
		default:
			var v any
			err = json.Unmarshal(raw, &v)
			opts = opts.WithExtra(k, v)
		}
		if err != nil {
			return fmt.Errorf("unmarshaling %T field %q: %w", *m, k, err)
		}
	}
	v, err := m.Flavor().New(opts)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", *m, err)
	}
	*m = v
	return nil
}

// String method implements the [fmt.Stringer] interface and returns
// the currency followed by the value in major units, for example "USD 1.00".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (m Money) String() string {
	return m.curr.Code() + " " + m.Unit().String()
}

// pickMode resolves the optional rounding mode argument.
func pickMode(modes []RoundingMode) (RoundingMode, error) {
	switch len(modes) {
	case 0:
		return DefaultRoundingMode, nil
	case 1:
		if modes[0] == "" {
			return DefaultRoundingMode, nil
		}
		if !modes[0].Valid() {
			return "", fmt.Errorf("%q: %w", modes[0], ErrUnknownRoundingMode)
		}
		return modes[0], nil
	}
	return "", fmt.Errorf("%v rounding modes: %w", len(modes), ErrInvalidArgument)
}
