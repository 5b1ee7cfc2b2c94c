package soldi

import (
	"fmt"
	"maps"
)

// Method is the body of a named method of a layer.
// The call carries the receiver and the position in the lineage the body
// was resolved at, which is what [Call.SuperCall] continues from.
type Method func(c *Call, args ...any) (any, error)

// InitFunc rewrites construction options before any value is built.
// The flavor is the one constructing the value.
// Initializers run from the root layer to the most derived one.
type InitFunc func(f *Flavor, opts Options) (Options, error)

// ConstructorFunc runs after the value has been built from the options and
// may attach properties to it.
// Constructors run from the root layer to the most derived one.
type ConstructorFunc func(c *Construction) error

// Layer is a named extension of a flavor.
// Every field except Name is optional.
// Globals declares shared configuration values with their defaults; see [Globals].
type Layer struct {
	Name        string
	Init        InitFunc
	Constructor ConstructorFunc
	Methods     map[string]Method
	Globals     map[string]any
}

func (l Layer) clone() *Layer {
	l.Methods = maps.Clone(l.Methods)
	l.Globals = maps.Clone(l.Globals)
	return &l
}

var reserved = map[string]bool{
	"amount":    true,
	"currency":  true,
	"precision": true,
}

// Construction is the value under construction handed to layer constructors.
type Construction struct {
	money Money
	opts  Options
	props map[string]any
}

// Money returns the value built so far, including the properties set by
// the constructors that already ran.
func (c *Construction) Money() Money {
	m := c.money
	m.props = maps.Clone(c.props)
	return m
}

// Options returns the options after all initializers ran.
func (c *Construction) Options() Options {
	return c.opts.clone()
}

// Flavor returns the flavor that is constructing the value.
func (c *Construction) Flavor() *Flavor {
	return c.money.Flavor()
}

// Set attaches a property to the value.
// Set returns an error for the names amount, currency and precision.
func (c *Construction) Set(name string, value any) error {
	if reserved[name] {
		return fmt.Errorf("setting %q: %w", name, ErrReservedProperty)
	}
	if c.props == nil {
		c.props = make(map[string]any)
	}
	c.props[name] = value
	return nil
}

// Get returns a property set by a previous constructor.
func (c *Construction) Get(name string) (any, bool) {
	v, ok := c.props[name]
	return v, ok
}

// Delete removes a property set by a previous constructor.
func (c *Construction) Delete(name string) {
	delete(c.props, name)
}
