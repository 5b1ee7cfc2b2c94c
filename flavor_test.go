package soldi

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// prefix returns a layer whose toString method prepends its name to the
// result of the layer above.
func prefix(name string) Layer {
	return Layer{
		Name: name,
		Methods: map[string]Method{
			"toString": func(c *Call, args ...any) (any, error) {
				s, err := Result[string](c.Super(args...))
				if err != nil {
					return nil, err
				}
				return name + ">" + s, nil
			},
		},
	}
}

func TestExtend(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := NewBase()
		a := MustExtend(f, Layer{Name: "A"})
		b := MustExtend(a, Layer{Name: "B"})
		if got, want := b.Name(), "B(A(Soldi))"; got != want {
			t.Errorf("Name() = %q, want %q", got, want)
		}
		if got, want := b.Lineage(), []string{"Soldi", "A", "B"}; !slices.Equal(got, want) {
			t.Errorf("Lineage() = %v, want %v", got, want)
		}
		if got, want := a.Lineage(), []string{"Soldi", "A"}; !slices.Equal(got, want) {
			t.Errorf("Lineage() of the base = %v, want %v", got, want)
		}
		if got := fmt.Sprint(f); got != BaseLayerName {
			t.Errorf("String() = %q, want %q", got, BaseLayerName)
		}
	})

	t.Run("siblings", func(t *testing.T) {
		f := NewBase()
		a := MustExtend(f, prefix("A"))
		b := MustExtend(f, prefix("B"))
		ma := a.MustNew(Options{Currency: "USD", Amount: 100})
		mb := b.MustNew(Options{Currency: "USD", Amount: 100})
		for m, want := range map[*Money]string{&ma: "A>USD 1.00", &mb: "B>USD 1.00"} {
			got, err := Result[string](m.Call("toString"))
			if err != nil {
				t.Errorf("toString failed: %v", err)
				continue
			}
			if got != want {
				t.Errorf("toString = %q, want %q", got, want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := Extend(nil, Layer{Name: "A"}); !errors.Is(err, ErrInvalidBase) {
			t.Errorf("Extend(nil) did not fail with %v, got %v", ErrInvalidBase, err)
		}
		if _, err := NewBase().Extend(Layer{}); !errors.Is(err, ErrInvalidLayer) {
			t.Errorf("Extend(Layer{}) did not fail with %v, got %v", ErrInvalidLayer, err)
		}
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustExtend(nil) did not panic")
			}
		}()
		MustExtend(nil, Layer{Name: "A"})
	})
}

func TestFlavor_New(t *testing.T) {
	t.Run("order", func(t *testing.T) {
		var got []string
		layer := func(name string) Layer {
			return Layer{
				Name: name,
				Init: func(_ *Flavor, o Options) (Options, error) {
					got = append(got, "init "+name)
					return o, nil
				},
				Constructor: func(*Construction) error {
					got = append(got, "ctor "+name)
					return nil
				},
			}
		}
		f := MustExtend(MustExtend(NewBase(), layer("A")), layer("B"))
		if _, err := f.New(Options{Currency: "USD"}); err != nil {
			t.Fatalf("New failed: %v", err)
		}
		want := []string{"init A", "init B", "ctor A", "ctor B"}
		if !slices.Equal(got, want) {
			t.Errorf("construction order = %v, want %v", got, want)
		}
	})

	t.Run("init", func(t *testing.T) {
		f := MustExtend(NewBase(), Layer{
			Name: "Defaults",
			Init: func(_ *Flavor, o Options) (Options, error) {
				if o.Currency == "" {
					o.Currency = "EUR"
				}
				return o, nil
			},
		})
		m, err := f.New(Options{Amount: 500})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if m.Currency() != "EUR" || m.Amount() != 500 {
			t.Errorf("New = %v, want EUR 5.00", m)
		}
		if m.Flavor() != f {
			t.Errorf("Flavor() = %v, want %v", m.Flavor(), f)
		}
	})

	t.Run("properties", func(t *testing.T) {
		f := MustExtend(MustExtend(NewBase(), Layer{
			Name: "Tagged",
			Constructor: func(c *Construction) error {
				tag, ok := c.Options().Get("tag")
				if !ok {
					tag = "none"
				}
				if err := c.Set("tag", tag); err != nil {
					return err
				}
				return c.Set("_secret", 42)
			},
		}), Layer{
			Name: "Reader",
			Constructor: func(c *Construction) error {
				tag, _ := c.Get("tag")
				if _, ok := c.Money().Property("tag"); !ok {
					return errors.New("tag is not visible")
				}
				return c.Set("seen", tag)
			},
		})
		m := f.MustNew(Options{Currency: "USD", Amount: 100}.WithExtra("tag", "gift"))
		if v, _ := m.Property("tag"); v != "gift" {
			t.Errorf("Property(tag) = %v, want gift", v)
		}
		if v, _ := m.Property("seen"); v != "gift" {
			t.Errorf("Property(seen) = %v, want gift", v)
		}
		if v, ok := m.Property("_secret"); !ok || v != 42 {
			t.Errorf("Property(_secret) = %v, %v, want 42", v, ok)
		}
		if props := m.Properties(); len(props) != 3 {
			t.Errorf("Properties() = %v, want tag, seen and _secret", props)
		}
		obj := m.ToObject()
		if _, ok := obj["_secret"]; ok {
			t.Errorf("ToObject() = %v, contains a private property", obj)
		}
		if obj["tag"] != "gift" {
			t.Errorf("ToObject() = %v, want tag gift", obj)
		}

		// Properties survive arithmetic.
		sum, err := m.Add(m)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if v, _ := sum.Property("tag"); v != "gift" {
			t.Errorf("Add dropped property tag, got %v", v)
		}
	})

	t.Run("delete", func(t *testing.T) {
		f := MustExtend(MustExtend(NewBase(), Layer{
			Name: "A",
			Constructor: func(c *Construction) error {
				return c.Set("scratch", true)
			},
		}), Layer{
			Name: "B",
			Constructor: func(c *Construction) error {
				c.Delete("scratch")
				return nil
			},
		})
		m := f.MustNew(Options{Currency: "USD"})
		if _, ok := m.Property("scratch"); ok {
			t.Errorf("Property(scratch) is still set")
		}
	})

	t.Run("error", func(t *testing.T) {
		errInit := errors.New("init failed")
		tests := map[string]struct {
			layer Layer
			want  error
		}{
			"init": {
				Layer{Name: "A", Init: func(*Flavor, Options) (Options, error) { return Options{}, errInit }},
				errInit,
			},
			"reserved": {
				Layer{Name: "A", Constructor: func(c *Construction) error { return c.Set("amount", 1) }},
				ErrReservedProperty,
			},
			"invalid options": {
				Layer{Name: "A", Init: func(_ *Flavor, o Options) (Options, error) {
					o.Currency = ""
					return o, nil
				}},
				ErrMissingCurrency,
			},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				f := MustExtend(NewBase(), tt.layer)
				_, err := f.New(Options{Currency: "USD"})
				if !errors.Is(err, tt.want) {
					t.Errorf("New did not fail with %v, got %v", tt.want, err)
				}
			})
		}
	})
}

func TestCall(t *testing.T) {
	t.Run("super chain", func(t *testing.T) {
		f := MustExtend(MustExtend(MustExtend(NewBase(), prefix("A")), prefix("B")), prefix("C"))
		m := f.MustNew(Options{Currency: "USD", Amount: 100})
		got, err := Result[string](m.Call("toString"))
		if err != nil {
			t.Fatalf("toString failed: %v", err)
		}
		if want := "C>B>A>USD 1.00"; got != want {
			t.Errorf("toString = %q, want %q", got, want)
		}
	})

	t.Run("relative to executing layer", func(t *testing.T) {
		plus := func(name string, n int64) Layer {
			return Layer{
				Name: name,
				Methods: map[string]Method{
					"getAmount": func(c *Call, _ ...any) (any, error) {
						a, err := Result[int64](c.Super())
						if err != nil {
							return nil, err
						}
						return a + n, nil
					},
				},
			}
		}
		f := MustExtend(MustExtend(NewBase(), plus("A", 1)), Layer{
			Name: "B",
			Methods: map[string]Method{
				"getAmount": func(c *Call, _ ...any) (any, error) {
					a, err := Result[int64](c.Super())
					if err != nil {
						return nil, err
					}
					return a + 1000, nil
				},
				"parent": func(c *Call, _ ...any) (any, error) {
					return c.SuperCall("getAmount")
				},
				"top": func(c *Call, _ ...any) (any, error) {
					return c.Invoke("getAmount")
				},
			},
		})
		m := f.MustNew(Options{Currency: "USD", Amount: 100})
		tests := map[string]int64{
			"getAmount": 1101,
			"parent":    101,
			"top":       1101,
		}
		for method, want := range tests {
			got, err := Result[int64](m.Call(method))
			if err != nil {
				t.Errorf("%v failed: %v", method, err)
				continue
			}
			if got != want {
				t.Errorf("%v = %v, want %v", method, got, want)
			}
		}
	})

	t.Run("context", func(t *testing.T) {
		var layer, method string
		f := MustExtend(NewBase(), Layer{
			Name: "Probe",
			Methods: map[string]Method{
				"isZero": func(c *Call, args ...any) (any, error) {
					layer, method = c.Layer(), c.Method()
					if c.Flavor().Name() != "Probe(Soldi)" {
						return nil, errors.New("wrong flavor")
					}
					return c.Super(args...)
				},
			},
		})
		m := f.MustNew(Options{Currency: "USD"})
		got, err := Result[bool](m.Call("isZero"))
		if err != nil {
			t.Fatalf("isZero failed: %v", err)
		}
		if !got || layer != "Probe" || method != "isZero" {
			t.Errorf("isZero = %v in %q.%q, want true in Probe.isZero", got, layer, method)
		}
	})

	t.Run("base methods", func(t *testing.T) {
		sum, err := Result[Money](oneDollar.Call("add", fiftyCents))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if sum.Amount() != 150 {
			t.Errorf("add = %v, want USD 1.50", sum)
		}
		parts, err := Result[[]Money](usd(101).Call("allocate", 50, 50))
		if err != nil {
			t.Fatalf("allocate failed: %v", err)
		}
		if parts[0].Amount() != 51 || parts[1].Amount() != 50 {
			t.Errorf("allocate = %v, want [51 50]", parts)
		}
		unit, err := Result[float64](usd(1055).Call("toRoundedUnit", 1))
		if err != nil {
			t.Fatalf("toRoundedUnit failed: %v", err)
		}
		if unit != 10.6 {
			t.Errorf("toRoundedUnit = %v, want 10.6", unit)
		}
		less, err := Result[bool](fiftyCents.Call("isLessThan", oneDollar))
		if err != nil || !less {
			t.Errorf("isLessThan = %v, %v, want true", less, err)
		}
		if _, err := oneDollar.Call("isLessThan", oneEuro); !errors.Is(err, ErrCurrencyMismatch) {
			t.Errorf("isLessThan did not fail with %v, got %v", ErrCurrencyMismatch, err)
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := oneDollar.Call("nope"); !errors.Is(err, ErrMethodNotFound) {
			t.Errorf("Call(nope) did not fail with %v, got %v", ErrMethodNotFound, err)
		}
		f := MustExtend(NewBase(), Layer{
			Name: "Orphan",
			Methods: map[string]Method{
				"describe": func(c *Call, _ ...any) (any, error) {
					return c.Super()
				},
			},
		})
		m := f.MustNew(Options{Currency: "USD"})
		if _, err := m.Call("describe"); !errors.Is(err, ErrSuperCallMissing) {
			t.Errorf("Call(describe) did not fail with %v, got %v", ErrSuperCallMissing, err)
		}
		if _, err := Result[string](oneDollar.Call("getAmount")); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Result[string](getAmount) did not fail with %v, got %v", ErrInvalidArgument, err)
		}
		if _, err := oneDollar.Call("add", "USD 1.00"); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Call(add, string) did not fail with %v, got %v", ErrInvalidArgument, err)
		}
	})
}

// recording returns a layer that notes each of the given methods when it
// runs and then defers to the layer above.
func recording(calls *[]string, methods ...string) Layer {
	l := Layer{Name: "Recording", Methods: make(map[string]Method)}
	for _, name := range methods {
		l.Methods[name] = func(c *Call, args ...any) (any, error) {
			*calls = append(*calls, c.Method())
			return c.Super(args...)
		}
	}
	return l
}

func TestCall_Overrides(t *testing.T) {
	var calls []string
	f := MustExtend(NewBase(), recording(&calls, "multiply", "convertPrecision", "isLessThan", "isGreaterThan"))
	m := f.MustNew(Options{Currency: "USD", Amount: 1000})
	n := f.MustNew(Options{Currency: "USD", Amount: 5000}.WithPrecision(4))

	t.Run("percentage", func(t *testing.T) {
		calls = nil
		got, err := Result[Money](m.Call("percentage", 50.0))
		if err != nil {
			t.Fatalf("Call(percentage) failed: %v", err)
		}
		if got.Amount() != 500 || got.Flavor() != f {
			t.Errorf("Call(percentage) = %v of %v, want USD 5.00 of %v", got, got.Flavor(), f)
		}
		if want := []string{"multiply"}; !slices.Equal(calls, want) {
			t.Errorf("Call(percentage) ran %v, want %v", calls, want)
		}

		calls = nil
		_, err = m.Call("percentage", 0.0)
		if !errors.Is(err, ErrInvalidPercentage) {
			t.Errorf("Call(percentage, 0) did not fail with %v, got %v", ErrInvalidPercentage, err)
		}
		if len(calls) != 0 {
			t.Errorf("Call(percentage, 0) ran %v, want nothing", calls)
		}
	})

	t.Run("add and subtract", func(t *testing.T) {
		calls = nil
		sum, err := Result[Money](m.Call("add", n))
		if err != nil {
			t.Fatalf("Call(add) failed: %v", err)
		}
		if sum.Amount() != 105000 || sum.Precision() != 4 {
			t.Errorf("Call(add) = %v, want USD 10.5000", sum)
		}
		if want := []string{"convertPrecision"}; !slices.Equal(calls, want) {
			t.Errorf("Call(add) ran %v, want %v", calls, want)
		}

		calls = nil
		diff, err := Result[Money](n.Call("subtract", m))
		if err != nil {
			t.Fatalf("Call(subtract) failed: %v", err)
		}
		if diff.Amount() != -95000 || diff.Precision() != 4 {
			t.Errorf("Call(subtract) = %v, want USD -9.5000", diff)
		}
		if want := []string{"convertPrecision"}; !slices.Equal(calls, want) {
			t.Errorf("Call(subtract) ran %v, want %v", calls, want)
		}

		calls = nil
		if _, err := m.Call("add", m); err != nil {
			t.Fatalf("Call(add) failed: %v", err)
		}
		if len(calls) != 0 {
			t.Errorf("Call(add) at equal precisions ran %v, want nothing", calls)
		}
	})

	t.Run("minimum and maximum", func(t *testing.T) {
		calls = nil
		got, err := f.Minimum(m, n)
		if err != nil {
			t.Fatalf("Minimum failed: %v", err)
		}
		if got.Amount() != n.Amount() {
			t.Errorf("Minimum(%v, %v) = %v, want %v", m, n, got, n)
		}
		got, err = f.Maximum(m, n)
		if err != nil {
			t.Fatalf("Maximum failed: %v", err)
		}
		if got.Amount() != m.Amount() {
			t.Errorf("Maximum(%v, %v) = %v, want %v", m, n, got, m)
		}
		if want := []string{"isLessThan", "isGreaterThan"}; !slices.Equal(calls, want) {
			t.Errorf("Minimum and Maximum ran %v, want %v", calls, want)
		}
	})

	t.Run("replaced multiply", func(t *testing.T) {
		errFrozen := errors.New("frozen")
		g := MustExtend(NewBase(), Layer{
			Name: "Frozen",
			Methods: map[string]Method{
				"multiply": func(*Call, ...any) (any, error) {
					return nil, errFrozen
				},
			},
		})
		v := g.MustNew(Options{Currency: "USD", Amount: 1000})
		if _, err := v.Call("percentage", 10.0); !errors.Is(err, errFrozen) {
			t.Errorf("Call(percentage) did not fail with %v, got %v", errFrozen, err)
		}
		if got, err := v.Percentage(10); err != nil || got.Amount() != 100 {
			t.Errorf("Percentage(10) = %v, %v, want USD 1.00", got, err)
		}
	})
}

func TestFlavor_Methods(t *testing.T) {
	f := MustExtend(NewBase(), Layer{
		Name:    "Extra",
		Methods: map[string]Method{"describe": toString},
	})
	if !f.HasMethod("describe") || !f.HasMethod("add") {
		t.Errorf("HasMethod did not report derived and inherited methods")
	}
	if NewBase().HasMethod("describe") {
		t.Errorf("HasMethod(describe) on the root flavor = true")
	}
	methods := f.Methods()
	if !slices.IsSorted(methods) || !slices.Contains(methods, "describe") || !slices.Contains(methods, "toObject") {
		t.Errorf("Methods() = %v", methods)
	}
}

func TestFlavor_Serialization(t *testing.T) {
	f := MustExtend(NewBase(), Layer{
		Name: "Labeled",
		Methods: map[string]Method{
			"toObject": func(c *Call, _ ...any) (any, error) {
				obj, err := Result[map[string]any](c.Super())
				if err != nil {
					return nil, err
				}
				obj["label"] = "price"
				return obj, nil
			},
		},
	})
	m := f.MustNew(Options{Currency: "USD", Amount: 100})

	got, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if want := `{"amount":100,"currency":"USD","label":"price"}`; string(got) != want {
		t.Errorf("json.Marshal = %s, want %s", got, want)
	}

	obj, err := Result[map[string]any](m.Call("toJSON"))
	if err != nil {
		t.Fatalf("toJSON failed: %v", err)
	}
	if obj["label"] != "price" {
		t.Errorf("toJSON = %v, want the derived toObject", obj)
	}

	sum, err := m.Add(m)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sum.Flavor() != f {
		t.Errorf("Add changed the flavor to %v", sum.Flavor())
	}
	got, err = json.Marshal(sum)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if want := `{"amount":200,"currency":"USD","label":"price"}`; string(got) != want {
		t.Errorf("json.Marshal = %s, want %s", got, want)
	}
}

func TestGlobals(t *testing.T) {
	t.Run("shared", func(t *testing.T) {
		f := NewBase()
		a := MustExtend(f, Layer{Name: "A", Globals: map[string]any{"greeting": "hello"}})
		b := MustExtend(a, Layer{Name: "B"})
		c := MustExtend(f, Layer{Name: "C"})

		if v, ok := b.Global("greeting"); !ok || v != "hello" {
			t.Errorf("Global(greeting) = %v, %v, want hello", v, ok)
		}
		if err := b.SetGlobal("greeting", "hi"); err != nil {
			t.Fatalf("SetGlobal failed: %v", err)
		}
		for _, g := range []*Flavor{f, a, b, c} {
			if v, _ := g.Global("greeting"); v != "hi" {
				t.Errorf("%v.Global(greeting) = %v, want hi", g, v)
			}
		}
		if !a.Globals().IsSet("greeting") {
			t.Errorf("IsSet(greeting) = false after an override")
		}
		if d, _ := a.Globals().Default("greeting"); d != "hello" {
			t.Errorf("Default(greeting) = %v, want hello", d)
		}

		if err := a.SetGlobal("greeting", "hello"); err != nil {
			t.Fatalf("SetGlobal failed: %v", err)
		}
		if a.Globals().IsSet("greeting") {
			t.Errorf("IsSet(greeting) = true after setting the default")
		}

		_ = a.SetGlobal("greeting", "hey")
		f.ResetGlobals()
		if v, _ := b.Global("greeting"); v != "hello" {
			t.Errorf("Global(greeting) after Reset = %v, want hello", v)
		}
		if got := f.Globals().Names(); !slices.Equal(got, []string{"greeting"}) {
			t.Errorf("Names() = %v", got)
		}
	})

	t.Run("isolated trees", func(t *testing.T) {
		a := MustExtend(NewBase(), Layer{Name: "A", Globals: map[string]any{"g": 1}})
		b := MustExtend(NewBase(), Layer{Name: "A", Globals: map[string]any{"g": 1}})
		_ = a.SetGlobal("g", 2)
		if v, _ := b.Global("g"); v != 1 {
			t.Errorf("override leaked to another root: %v", v)
		}
	})

	t.Run("shadowing", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		f := NewBase(WithLogger(log))
		a := MustExtend(f, Layer{Name: "A", Globals: map[string]any{"g": 1}})
		if len(hook.AllEntries()) != 0 {
			t.Fatalf("unexpected log entries: %v", hook.AllEntries())
		}
		b := MustExtend(a, Layer{Name: "B", Globals: map[string]any{"g": 2}})
		e := hook.LastEntry()
		if e == nil || e.Level != logrus.WarnLevel {
			t.Fatalf("shadowing did not log a warning, got %v", e)
		}
		if e.Data["previous_layer"] != "A" || e.Data["layer"] != "B" || e.Data["global"] != "g" {
			t.Errorf("warning fields = %v", e.Data)
		}
		if v, _ := b.Global("g"); v != 2 {
			t.Errorf("Global(g) = %v, want the shadowing default 2", v)
		}
		if b.Logger() != log {
			t.Errorf("Logger() was not inherited")
		}
	})

	t.Run("error", func(t *testing.T) {
		if err := NewBase().SetGlobal("missing", 1); !errors.Is(err, ErrUnknownGlobal) {
			t.Errorf("SetGlobal(missing) did not fail with %v, got %v", ErrUnknownGlobal, err)
		}
		if _, ok := NewBase().Global("missing"); ok {
			t.Errorf("Global(missing) reported a value")
		}
	})
}

func TestFlavor_Statics(t *testing.T) {
	f := NewBase()
	f.SetStatic("version", 1)
	g := MustExtend(f, Layer{Name: "G"})
	f.SetStatic("late", true)

	if v, ok := g.Static("version"); !ok || v != 1 {
		t.Errorf("Static(version) = %v, %v, want 1", v, ok)
	}
	if _, ok := g.Static("late"); ok {
		t.Errorf("Static(late) is visible in a flavor extended before it was set")
	}
	g.SetStatic("version", 2)
	if v, _ := f.Static("version"); v != 1 {
		t.Errorf("SetStatic on a derived flavor changed the base to %v", v)
	}
}
