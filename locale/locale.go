// Package locale provides the WithLocale layer, which attaches a BCP 47
// language tag to monetary values.
//
// The tag is taken from the "locale" construction option. Values built
// without one use the globalLocale setting of the lineage, unless it is
// unset or equal to [Default]. Values without a tag report [Default].
package locale

import (
	"errors"
	"fmt"

	"github.com/nick-codes/soldi"
	"golang.org/x/text/language"
)

const (
	// LayerName is the name of the layer in a flavor lineage.
	LayerName = "WithLocale"
	// Option is the construction option carrying the tag.
	Option = "locale"
	// GlobalLocale is the shared setting consulted when no tag is given.
	GlobalLocale = "globalLocale"
	// Default is reported for values without a tag.
	Default = "en-US"

	property = soldi.PrivatePrefix + "locale"
)

// ErrInvalidLocale is returned for tags that are not well-formed BCP 47.
var ErrInvalidLocale = errors.New("invalid locale")

// Layer returns the WithLocale layer.
func Layer() soldi.Layer {
	return soldi.Layer{
		Name:        LayerName,
		Constructor: construct,
		Methods: map[string]soldi.Method{
			"getLocale": getLocale,
			"setLocale": setLocale,
		},
		Globals: map[string]any{
			GlobalLocale: "",
		},
	}
}

// With returns base extended with the WithLocale layer.
func With(base *soldi.Flavor) (*soldi.Flavor, error) {
	return soldi.Extend(base, Layer())
}

// Parse validates a tag and returns its canonical form.
func Parse(tag string) (string, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidLocale, tag, err)
	}
	return t.String(), nil
}

// Of returns the tag of value m, or [Default] if it has none.
func Of(m soldi.Money) string {
	if tag, ok := Lookup(m); ok {
		return tag
	}
	return Default
}

// Lookup returns the tag of value m and whether it has one.
func Lookup(m soldi.Money) (string, bool) {
	v, ok := m.Property(property)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set returns a copy of m with the given tag.
// The flavor of m must have the WithLocale layer in its lineage.
func Set(m soldi.Money, tag string) (soldi.Money, error) {
	return soldi.Result[soldi.Money](m.Call("setLocale", tag))
}

func construct(c *soldi.Construction) error {
	opts := c.Options()
	if v, ok := opts.Get(Option); ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: option is %T, want string", ErrInvalidLocale, v)
		}
		tag, err := Parse(s)
		if err != nil {
			return err
		}
		return c.Set(property, tag)
	}
	// Inherited values carry their tag as a private option.
	if v, ok := opts.Get(property); ok {
		return c.Set(property, v)
	}
	g, _ := c.Flavor().Global(GlobalLocale)
	s, _ := g.(string)
	if s == "" || s == Default {
		return nil
	}
	tag, err := Parse(s)
	if err != nil {
		return fmt.Errorf("%v: %w", GlobalLocale, err)
	}
	c.Flavor().Logger().WithField("locale", tag).Debug("using global locale")
	return c.Set(property, tag)
}

func getLocale(c *soldi.Call, _ ...any) (any, error) {
	return Of(c.Self()), nil
}

func setLocale(c *soldi.Call, args ...any) (any, error) {
	tag, err := soldi.StringArg(args, 0)
	if err != nil {
		return nil, err
	}
	return c.Self().Inherit(func(o *soldi.Options) {
		*o = o.WithExtra(Option, tag)
	})
}
