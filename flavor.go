package soldi

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidBase      = errors.New("invalid base flavor")
	ErrInvalidLayer     = errors.New("invalid layer")
	ErrSuperCallMissing = errors.New("super-call target missing in lineage")
	ErrMethodNotFound   = errors.New("method not found")
)

// BaseLayerName is the name of the root layer of every lineage.
const BaseLayerName = "Soldi"

// Flavor is a value kind produced by stacking layers on the root layer.
// A flavor constructs values with [Flavor.New] and dispatches named
// methods on them with [Money.Call]; a method found in several layers
// resolves to the most derived one, which may continue to the next one up
// the lineage with [Call.SuperCall].
//
// Flavors are immutable once built and safe for concurrent use, except for
// their [Globals] and statics which follow the rules of [Globals].
type Flavor struct {
	name    string
	layers  []*Layer         // root first
	table   map[string][]int // method name to layer indices, most derived first
	globals *Globals
	statics map[string]any
	log     logrus.FieldLogger
}

// Option configures a root flavor.
type Option func(*Flavor)

// WithLogger sets the logger used by a root flavor and every flavor
// extended from it. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(f *Flavor) {
		f.log = log
	}
}

var (
	baseOnce sync.Once
	base     *Flavor
)

// Base returns the process-wide root flavor.
// It is built on first use.
func Base() *Flavor {
	baseOnce.Do(func() {
		base = NewBase()
	})
	return base
}

// NewBase returns a new root flavor with its own set of globals.
func NewBase(opts ...Option) *Flavor {
	f := &Flavor{
		name:    BaseLayerName,
		statics: make(map[string]any),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.layers = []*Layer{baseLayer()}
	f.table = resolve(f.layers)
	f.globals = newGlobals(f.log)
	return f
}

// Extend returns a new flavor with layer l stacked on flavor b.
// The new flavor is named "Name(base name)", shares the globals of b and
// starts with a copy of the statics of b. Globals declared by l are added
// to the shared set; a name that is already declared is shadowed and a
// warning is logged.
//
// Extend returns an error if:
//   - b is nil;
//   - the layer has no name.
func Extend(b *Flavor, l Layer) (*Flavor, error) {
	if b == nil {
		return nil, fmt.Errorf("extending with %q: %w", l.Name, ErrInvalidBase)
	}
	return b.Extend(l)
}

// MustExtend is like [Extend] but panics if the flavor cannot be built.
func MustExtend(b *Flavor, l Layer) *Flavor {
	f, err := Extend(b, l)
	if err != nil {
		panic(fmt.Sprintf("Extend(%v, %q) failed: %v", b, l.Name, err))
	}
	return f
}

// Extend is like the package level [Extend] with f as the base flavor.
func (f *Flavor) Extend(l Layer) (*Flavor, error) {
	if f == nil {
		return nil, fmt.Errorf("extending with %q: %w", l.Name, ErrInvalidBase)
	}
	if l.Name == "" {
		return nil, fmt.Errorf("extending %v: %w: missing name", f, ErrInvalidLayer)
	}
	layers := append(slices.Clip(f.layers), l.clone())
	g := &Flavor{
		name:    fmt.Sprintf("%s(%s)", l.Name, f.name),
		layers:  layers,
		table:   resolve(layers),
		globals: f.globals,
		statics: maps.Clone(f.statics),
		log:     f.log,
	}
	g.globals.declare(l.Name, l.Globals)
	g.log.WithField("flavor", g.name).Debug("flavor extended")
	return g, nil
}

// resolve maps every method name to the layers defining it.
func resolve(layers []*Layer) map[string][]int {
	t := make(map[string][]int)
	for i := len(layers) - 1; i >= 0; i-- {
		for name := range layers[i].Methods {
			t[name] = append(t[name], i)
		}
	}
	return t
}

// New constructs a value of the flavor.
// The options pass through the initializers of every layer, root first;
// the value is then built from them and the constructors of every layer
// run, root first.
//
// Currency is required. Amount is in minor units, Unit in major units;
// when both are set they must denote the same value. A unit that is not a
// whole number of minor units at the resolved precision is rejected.
// Precision defaults to the precision of the currency and is only kept as
// explicit when it differs from it.
//
// New returns an error if:
//   - the currency is missing;
//   - the precision is negative or greater than [MaxPrecision];
//   - the amount is not an integer or leaves the safe integer range;
//   - an initializer or a constructor fails.
func (f *Flavor) New(opts Options) (Money, error) {
	m, err := f.construct(opts)
	if err != nil {
		return Money{}, fmt.Errorf("constructing %v: %w", f.name, err)
	}
	return m, nil
}

// MustNew is like [Flavor.New] but panics if the value cannot be constructed.
func (f *Flavor) MustNew(opts Options) Money {
	m, err := f.New(opts)
	if err != nil {
		panic(fmt.Sprintf("%v.New(%+v) failed: %v", f, opts, err))
	}
	return m
}

func (f *Flavor) construct(opts Options) (Money, error) {
	opts = opts.clone()
	var err error
	for _, l := range f.layers {
		if l.Init == nil {
			continue
		}
		opts, err = l.Init(f, opts.clone())
		if err != nil {
			return Money{}, fmt.Errorf("initializing %v: %w", l.Name, err)
		}
	}
	m, err := newMoney(f, opts)
	if err != nil {
		return Money{}, err
	}
	c := &Construction{money: m, opts: opts}
	for _, l := range f.layers {
		if l.Constructor == nil {
			continue
		}
		if err := l.Constructor(c); err != nil {
			return Money{}, fmt.Errorf("running constructor of %v: %w", l.Name, err)
		}
	}
	m.props = c.props
	return m, nil
}

// Name returns the name of the flavor, for example "Dinero(WithLocale(Soldi))".
func (f *Flavor) Name() string {
	return f.name
}

// String implements the [fmt.Stringer] interface.
func (f *Flavor) String() string {
	return f.name
}

// Lineage returns the names of the layers of the flavor, root first.
func (f *Flavor) Lineage() []string {
	names := make([]string, len(f.layers))
	for i, l := range f.layers {
		names[i] = l.Name
	}
	return names
}

// Methods returns the names of all methods the flavor responds to in
// sorted order.
func (f *Flavor) Methods() []string {
	names := make([]string, 0, len(f.table))
	for name := range f.table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// HasMethod reports whether some layer of the flavor defines the method.
func (f *Flavor) HasMethod(name string) bool {
	return len(f.table[name]) > 0
}

// Globals returns the globals shared by the lineage tree of the flavor.
func (f *Flavor) Globals() *Globals {
	return f.globals
}

// Global is a shortcut for [Globals.Get].
func (f *Flavor) Global(name string) (any, bool) {
	return f.globals.Get(name)
}

// SetGlobal is a shortcut for [Globals.Set].
func (f *Flavor) SetGlobal(name string, value any) error {
	return f.globals.Set(name, value)
}

// ResetGlobals is a shortcut for [Globals.Reset].
func (f *Flavor) ResetGlobals() {
	f.globals.Reset()
}

// Static returns a value attached to the flavor itself.
func (f *Flavor) Static(name string) (any, bool) {
	v, ok := f.statics[name]
	return v, ok
}

// SetStatic attaches a value to the flavor. Flavors extended afterwards
// start with a copy of it; flavors extended before do not see it.
func (f *Flavor) SetStatic(name string, value any) {
	f.statics[name] = value
}

// Logger returns the logger of the flavor.
func (f *Flavor) Logger() logrus.FieldLogger {
	return f.log
}

// Minimum is like the package level [Minimum], but compares values with
// the isLessThan method of their flavors, so layer overrides apply.
func (f *Flavor) Minimum(ms ...Money) (Money, error) {
	m, err := pickBy(ms, "isLessThan")
	if err != nil {
		return Money{}, fmt.Errorf("computing minimum on %v: %w", f.name, err)
	}
	return m, nil
}

// Maximum is like the package level [Maximum], but compares values with
// the isGreaterThan method of their flavors.
func (f *Flavor) Maximum(ms ...Money) (Money, error) {
	m, err := pickBy(ms, "isGreaterThan")
	if err != nil {
		return Money{}, fmt.Errorf("computing maximum on %v: %w", f.name, err)
	}
	return m, nil
}

// pickBy keeps the first value unless a later one reports true for method
// against the current pick.
func pickBy(ms []Money, method string) (Money, error) {
	if len(ms) == 0 {
		return Money{}, ErrNoValues
	}
	r := ms[0]
	for _, m := range ms[1:] {
		ok, err := Result[bool](m.Call(method, r))
		if err != nil {
			return Money{}, err
		}
		if ok {
			r = m
		}
	}
	return r, nil
}

// RoundingModes returns the names of all rounding modes.
func (f *Flavor) RoundingModes() []RoundingMode {
	return RoundingModes()
}
