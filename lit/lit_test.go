package lit_test

import (
	"errors"
	"testing"

	"github.com/ozars/serde"
	"github.com/ozars/serde/lit"
)

func TestDeserialize_Null(t *testing.T) {
	got, err := serde.Deserialize[*int](lit.NewDeserializer("null"))
	if err != nil || got != nil {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestDeserialize_Bools(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"true", true},
		{"false", false},
		{"TRUE", true},
		{"False", false},
		{"  true  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := serde.Deserialize[bool](lit.NewDeserializer(tt.src))
			if err != nil || got != tt.want {
				t.Errorf("got %v, %v", got, err)
			}
		})
	}
}

func TestDeserialize_Numbers(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		got, err := serde.Deserialize[int](lit.NewDeserializer(" 42 "))
		if err != nil || got != 42 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("negative", func(t *testing.T) {
		got, err := serde.Deserialize[int](lit.NewDeserializer("-42"))
		if err != nil || got != -42 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("uint64 beyond int64", func(t *testing.T) {
		got, err := serde.Deserialize[uint64](lit.NewDeserializer("18446744073709551615"))
		if err != nil || got != 18446744073709551615 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("float", func(t *testing.T) {
		got, err := serde.Deserialize[float64](lit.NewDeserializer("2.5"))
		if err != nil || got != 2.5 {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("negative float", func(t *testing.T) {
		got, err := serde.Deserialize[float64](lit.NewDeserializer("-0.5"))
		if err != nil || got != -0.5 {
			t.Errorf("got %v, %v", got, err)
		}
	})
}

func TestDeserialize_Strings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"double quoted", `"hi"`, "hi"},
		{"single quoted", `'hi'`, "hi"},
		{"empty", `""`, ""},
		{"escaped quote", `'it\'s'`, "it's"},
		{"escaped backslash", `"a\\b"`, `a\b`},
		{"unknown escape kept", `"a\nb"`, `a\nb`},
		{"interior space", `" a b "`, " a b "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serde.Deserialize[string](lit.NewDeserializer(tt.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpanned(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		sp, err := serde.Deserialize[serde.Spanned[int]](lit.NewDeserializer(" 42 "))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sp.Value != 42 || sp.Span != (serde.Span{Start: 1, End: 3}) {
			t.Errorf("got %d %v", sp.Value, sp.Span)
		}
	})

	t.Run("quoted string includes quotes", func(t *testing.T) {
		sp, err := serde.Deserialize[serde.Spanned[string]](lit.NewDeserializer("  'hi'  "))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sp.Value != "hi" {
			t.Errorf("Value = %q", sp.Value)
		}
		if want := (serde.Span{Start: 2, End: 6}); sp.Span != want {
			t.Errorf("Span = %v, want %v", sp.Span, want)
		}
	})

	t.Run("bool", func(t *testing.T) {
		sp, err := serde.Deserialize[serde.Spanned[bool]](lit.NewDeserializer("true"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sp.Value || sp.Span != (serde.Span{Start: 0, End: 4}) {
			t.Errorf("got %v %v", sp.Value, sp.Span)
		}
	})
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"garbage", "@"},
		{"bare minus", "-"},
		{"trailing content", "42 x"},
		{"two literals", `"a" "b"`},
		{"unterminated string", `"abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := serde.Deserialize[any](lit.NewDeserializer(tt.src))
			if !errors.Is(err, serde.ErrSyntax) {
				t.Errorf("err = %v, want ErrSyntax", err)
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	for _, src := range []string{"", "   "} {
		if _, err := serde.Deserialize[any](lit.NewDeserializer(src)); !errors.Is(err, serde.ErrNoContent) {
			t.Errorf("%q: err = %v, want ErrNoContent", src, err)
		}
	}
}

func TestSingleUse(t *testing.T) {
	d := lit.NewDeserializer("1")

	if _, err := serde.Deserialize[int](d); err != nil {
		t.Fatalf("first drive: %v", err)
	}
	if _, err := serde.Deserialize[int](d); !errors.Is(err, serde.ErrConsumed) {
		t.Errorf("second drive: err = %v, want ErrConsumed", err)
	}
}

func TestRegistered(t *testing.T) {
	d, err := serde.NewDeserializer(lit.ContentType, []byte("true"))
	if err != nil {
		t.Fatalf("NewDeserializer() error: %v", err)
	}
	got, err := serde.Deserialize[bool](d)
	if err != nil || !got {
		t.Errorf("got %v, %v", got, err)
	}
}
