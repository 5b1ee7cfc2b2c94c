package soldi

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCurrency_Parse(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			code string
			want Currency
		}{
			{"USD", "USD"},
			{" EUR ", "EUR"},
			{"jpy", "jpy"},
			{"BTC", "BTC"},
			{"points", "points"},
		}
		for _, tt := range tests {
			got, err := ParseCurr(tt.code)
			if err != nil {
				t.Errorf("ParseCurr(%q) failed: %v", tt.code, err)
				continue
			}
			if got != tt.want {
				t.Errorf("ParseCurr(%q) = %v, want %v", tt.code, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		for _, tt := range []string{"", "   ", "\t"} {
			_, err := ParseCurr(tt)
			if !errors.Is(err, ErrMissingCurrency) {
				t.Errorf("ParseCurr(%q) did not fail with %v, got %v", tt, ErrMissingCurrency, err)
			}
		}
	})
}

func TestMustParseCurr(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustParseCurr(\"\") did not panic")
			}
		}()
		MustParseCurr("")
	})
}

func TestCurrency_Precision(t *testing.T) {
	tests := []struct {
		curr Currency
		want int
	}{
		{"USD", 2},
		{"EUR", 2},
		{"JPY", 0},
		{"VND", 0},
		{"XPF", 0},
		{"IQD", 3},
		{"BHD", 3},
		{"JOD", 3},
		{"BTC", 2},
		{"jpy", 2},
	}
	for _, tt := range tests {
		got := tt.curr.Precision()
		if got != tt.want {
			t.Errorf("%v.Precision() = %v, want %v", tt.curr, got, tt.want)
		}
	}
}

func TestCurrency_String(t *testing.T) {
	tests := []Currency{"USD", "JPY", "BTC"}
	for _, tt := range tests {
		if got := tt.String(); got != string(tt) {
			t.Errorf("%q.String() = %q", tt, got)
		}
		if got := tt.Code(); got != string(tt) {
			t.Errorf("%q.Code() = %q", tt, got)
		}
	}
}

func TestCurrency_JSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		got, err := json.Marshal(struct {
			Curr Currency `json:"curr"`
		}{"JPY"})
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		if string(got) != `{"curr":"JPY"}` {
			t.Errorf("json.Marshal = %s, want %s", got, `{"curr":"JPY"}`)
		}
	})

	t.Run("unmarshal", func(t *testing.T) {
		var c Currency
		if err := json.Unmarshal([]byte(`"USD"`), &c); err != nil {
			t.Fatalf("json.Unmarshal failed: %v", err)
		}
		if c != "USD" {
			t.Errorf("json.Unmarshal = %v, want USD", c)
		}
		if err := json.Unmarshal([]byte(`"\u0041B"`), &c); err != nil {
			t.Fatalf("json.Unmarshal failed: %v", err)
		}
		if c != "AB" {
			t.Errorf("json.Unmarshal = %v, want AB", c)
		}
		if err := json.Unmarshal([]byte(`""`), &c); !errors.Is(err, ErrMissingCurrency) {
			t.Errorf("json.Unmarshal(\"\") did not fail with %v, got %v", ErrMissingCurrency, err)
		}
		if err := json.Unmarshal([]byte(`123`), &c); err == nil {
			t.Errorf("json.Unmarshal(123) did not fail")
		}
	})

	t.Run("escaped tokens", func(t *testing.T) {
		for _, s := range []string{`A"B`, `X\Y`, "PTS\tX", "<tag>"} {
			c := MustParseCurr(s)
			data, err := json.Marshal(c)
			if err != nil {
				t.Errorf("json.Marshal(%q) failed: %v", s, err)
				continue
			}
			if !json.Valid(data) {
				t.Errorf("json.Marshal(%q) = %s, not valid JSON", s, data)
				continue
			}
			var got Currency
			if err := json.Unmarshal(data, &got); err != nil {
				t.Errorf("json.Unmarshal(%s) failed: %v", data, err)
				continue
			}
			if got != c {
				t.Errorf("json.Unmarshal(%s) = %q, want %q", data, got, c)
			}
		}
	})
}

func TestCurrency_Text(t *testing.T) {
	var c Currency
	if err := c.UnmarshalText([]byte("EUR")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	got, err := c.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(got) != "EUR" {
		t.Errorf("MarshalText = %q, want %q", got, "EUR")
	}
	if err := c.UnmarshalText(nil); err == nil {
		t.Errorf("UnmarshalText(nil) did not fail")
	}
}
