package soldi

import "fmt"

// Call is the context of a method body invocation.
type Call struct {
	flavor *Flavor
	self   Money
	method string
	level  int // index of the executing layer in the lineage
}

// Call invokes a named method of the value's flavor.
// The most derived layer defining the method runs first.
//
// Call returns an error if no layer defines the method, or the error
// returned by the method body.
func (m Money) Call(method string, args ...any) (any, error) {
	return m.Flavor().dispatch(m, method, args)
}

func (f *Flavor) dispatch(self Money, method string, args []any) (any, error) {
	idx := f.table[method]
	if len(idx) == 0 {
		return nil, fmt.Errorf("calling %q on %v: %w", method, f.name, ErrMethodNotFound)
	}
	return f.invoke(self, method, idx[0], args)
}

func (f *Flavor) invoke(self Money, method string, level int, args []any) (any, error) {
	c := &Call{flavor: f, self: self, method: method, level: level}
	return f.layers[level].Methods[method](c, args...)
}

// Self returns the receiver of the call.
func (c *Call) Self() Money {
	return c.self
}

// Flavor returns the flavor of the receiver.
func (c *Call) Flavor() *Flavor {
	return c.flavor
}

// Method returns the name of the executing method.
func (c *Call) Method() string {
	return c.method
}

// Layer returns the name of the layer whose body is executing.
func (c *Call) Layer() string {
	return c.flavor.layers[c.level].Name
}

// Super invokes the executing method on the nearest layer above the
// executing one. It is a shortcut for SuperCall with the method name of c.
func (c *Call) Super(args ...any) (any, error) {
	return c.SuperCall(c.method, args...)
}

// SuperCall invokes a named method on the nearest layer above the executing
// one that defines it, with the same receiver. Resolution is relative to
// the executing layer, not to the receiver's flavor, so chains of
// super-calls walk the lineage exactly once toward the root.
//
// SuperCall returns an error if no layer above the executing one defines
// the method.
func (c *Call) SuperCall(method string, args ...any) (any, error) {
	for _, i := range c.flavor.table[method] {
		if i < c.level {
			return c.flavor.invoke(c.self, method, i, args)
		}
	}
	return nil, fmt.Errorf("super-calling %q from %v: %w", method, c.Layer(), ErrSuperCallMissing)
}

// Invoke dispatches a named method on the receiver starting from the most
// derived layer, as [Money.Call] does.
func (c *Call) Invoke(method string, args ...any) (any, error) {
	return c.flavor.dispatch(c.self, method, args)
}

// Result asserts the type of a method result.
// It passes errors through unchanged.
func Result[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: result is %T, want %T", ErrInvalidArgument, v, zero)
	}
	return t, nil
}
