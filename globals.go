package soldi

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/sirupsen/logrus"
)

// ErrUnknownGlobal is returned when setting a global no layer declared.
var ErrUnknownGlobal = errors.New("unknown global")

// Globals is the configuration shared by every flavor in one lineage tree.
// Each global has a default, declared by a layer, and an optional override.
// A flavor and all flavors extended from it share the same Globals, so an
// override set through any of them is visible to all of them.
//
// Globals is not safe for concurrent mutation. Set all overrides before the
// flavors are used from several goroutines.
type Globals struct {
	log       logrus.FieldLogger
	declared  map[string]declaration
	overrides map[string]any
}

type declaration struct {
	layer string
	value any
}

func newGlobals(log logrus.FieldLogger) *Globals {
	return &Globals{
		log:       log,
		declared:  make(map[string]declaration),
		overrides: make(map[string]any),
	}
}

// declare records the defaults of a layer. A default declared by an earlier
// layer is shadowed and a warning is logged.
func (g *Globals) declare(layer string, defaults map[string]any) {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		v := defaults[name]
		if prev, ok := g.declared[name]; ok {
			g.log.WithFields(logrus.Fields{
				"global":           name,
				"layer":            layer,
				"previous_layer":   prev.layer,
				"previous_default": prev.value,
				"default":          v,
			}).Warnf("existing global %v declared by %v with default %#v shadowed by %v with default %#v",
				name, prev.layer, prev.value, layer, v)
		}
		g.declared[name] = declaration{layer: layer, value: v}
	}
}

// Get returns the override of a global if one is set, its default otherwise.
// The second result is false if no layer declared the global.
func (g *Globals) Get(name string) (any, bool) {
	d, ok := g.declared[name]
	if !ok {
		return nil, false
	}
	if v, ok := g.overrides[name]; ok {
		return v, true
	}
	return d.value, true
}

// Default returns the declared default of a global.
func (g *Globals) Default(name string) (any, bool) {
	d, ok := g.declared[name]
	return d.value, ok
}

// IsSet reports whether a global has an override.
func (g *Globals) IsSet(name string) bool {
	_, ok := g.overrides[name]
	return ok
}

// Set overrides a global. Setting a global to its default removes the
// override.
//
// Set returns an error if no layer declared the global.
func (g *Globals) Set(name string, value any) error {
	d, ok := g.declared[name]
	if !ok {
		return fmt.Errorf("setting %q: %w", name, ErrUnknownGlobal)
	}
	if reflect.DeepEqual(value, d.value) {
		delete(g.overrides, name)
	} else {
		g.overrides[name] = value
	}
	g.log.WithField("global", name).Debugf("global %v set to %#v", name, value)
	return nil
}

// Reset removes all overrides.
func (g *Globals) Reset() {
	clear(g.overrides)
}

// Names returns the names of all declared globals in sorted order.
func (g *Globals) Names() []string {
	names := make([]string, 0, len(g.declared))
	for name := range g.declared {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
