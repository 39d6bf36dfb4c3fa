package serde_test

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ozars/serde"
	"github.com/ozars/serde/value"
)

func TestDeserialize_Scalars(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		got, err := serde.Deserialize[string](value.NewString("hi"))
		if err != nil || got != "hi" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("bool", func(t *testing.T) {
		got, err := serde.Deserialize[bool](value.NewBool(true))
		if err != nil || !got {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("int", func(t *testing.T) {
		got, err := serde.Deserialize[int](value.NewInt64(-5))
		if err != nil || got != -5 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("int8 narrowing", func(t *testing.T) {
		got, err := serde.Deserialize[int8](value.NewInt64(127))
		if err != nil || got != 127 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("int from uint", func(t *testing.T) {
		got, err := serde.Deserialize[int](value.NewUint64(42))
		if err != nil || got != 42 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("uint from int", func(t *testing.T) {
		got, err := serde.Deserialize[uint16](value.NewInt64(300))
		if err != nil || got != 300 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("uint64 max", func(t *testing.T) {
		got, err := serde.Deserialize[uint64](value.NewUint64(math.MaxUint64))
		if err != nil || got != math.MaxUint64 {
			t.Errorf("got %d, %v", got, err)
		}
	})

	t.Run("float", func(t *testing.T) {
		got, err := serde.Deserialize[float64](value.NewFloat64(2.5))
		if err != nil || got != 2.5 {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("float from int", func(t *testing.T) {
		got, err := serde.Deserialize[float64](value.NewInt64(3))
		if err != nil || got != 3.0 {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("bytes", func(t *testing.T) {
		got, err := serde.Deserialize[[]byte](value.NewBytes([]byte{1, 2, 3}))
		if err != nil || !reflect.DeepEqual(got, []byte{1, 2, 3}) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("bytes from base64", func(t *testing.T) {
		got, err := serde.Deserialize[[]byte](value.NewString("aGk="))
		if err != nil || string(got) != "hi" {
			t.Errorf("got %q, %v", got, err)
		}
	})
}

func TestDeserialize_RangeErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "int8 overflow",
			run: func() error {
				_, err := serde.Deserialize[int8](value.NewInt64(300))
				return err
			},
		},
		{
			name: "negative to uint",
			run: func() error {
				_, err := serde.Deserialize[uint32](value.NewInt64(-1))
				return err
			},
		},
		{
			name: "uint64 max to int64",
			run: func() error {
				_, err := serde.Deserialize[int64](value.NewUint64(math.MaxUint64))
				return err
			},
		},
		{
			name: "float64 max to float32",
			run: func() error {
				_, err := serde.Deserialize[float32](value.NewFloat64(math.MaxFloat64))
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, serde.ErrOutOfRange) {
				t.Errorf("err = %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestDeserialize_TypeMismatch(t *testing.T) {
	_, err := serde.Deserialize[int](value.NewString("x"))
	if !errors.Is(err, serde.ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
	want := `invalid type: string "x", expected an integer`
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}

	if _, err := serde.Deserialize[string](value.NewBool(true)); !errors.Is(err, serde.ErrInvalidType) {
		t.Errorf("string from bool: err = %v", err)
	}
	if _, err := serde.Deserialize[bool](value.NewInt64(1)); !errors.Is(err, serde.ErrInvalidType) {
		t.Errorf("bool from int: err = %v", err)
	}
	if _, err := serde.Deserialize[string](value.NewNil()); !errors.Is(err, serde.ErrInvalidType) {
		t.Errorf("string from nil: err = %v", err)
	}
}

func TestDeserialize_Any(t *testing.T) {
	src := map[string]any{
		"name":  "amelia",
		"tags":  []any{"a", "b"},
		"count": int64(3),
		"ratio": 2.5,
		"ok":    true,
		"none":  nil,
	}

	got, err := serde.Deserialize[any](value.NewMap(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, src) {
		t.Errorf("got %#v, want %#v", got, src)
	}
}

func TestDeserialize_Containers(t *testing.T) {
	t.Run("int slice", func(t *testing.T) {
		got, err := serde.Deserialize[[]int](value.NewSeq([]any{int64(1), int64(2), int64(3)}))
		if err != nil || !reflect.DeepEqual(got, []int{1, 2, 3}) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("empty seq", func(t *testing.T) {
		got, err := serde.Deserialize[[]string](value.NewSeq(nil))
		if err != nil || len(got) != 0 {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("string map", func(t *testing.T) {
		got, err := serde.Deserialize[map[string]int](value.NewMap(map[string]any{"a": int64(1), "b": int64(2)}))
		if err != nil || !reflect.DeepEqual(got, map[string]int{"a": 1, "b": 2}) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("nested", func(t *testing.T) {
		src := map[string]any{"xs": []any{"p", "q"}}
		got, err := serde.Deserialize[map[string][]string](value.NewMap(src))
		want := map[string][]string{"xs": {"p", "q"}}
		if err != nil || !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("int keys", func(t *testing.T) {
		src := map[any]any{int64(1): "one", int64(2): "two"}
		got, err := serde.Deserialize[map[int64]string](value.NewAny(src))
		want := map[int64]string{1: "one", 2: "two"}
		if err != nil || !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("named slice type", func(t *testing.T) {
		type ids []int64
		got, err := serde.Deserialize[ids](value.NewSeq([]any{int64(7)}))
		if err != nil || !reflect.DeepEqual(got, ids{7}) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("element error propagates", func(t *testing.T) {
		_, err := serde.Deserialize[[]int](value.NewSeq([]any{int64(1), "oops"}))
		if !errors.Is(err, serde.ErrInvalidType) {
			t.Errorf("err = %v, want ErrInvalidType", err)
		}
	})
}

func TestDeserializeSlice(t *testing.T) {
	got, err := serde.DeserializeSlice[string](value.NewSeq([]any{"a", "b"}))
	if err != nil || !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestDeserializeMap(t *testing.T) {
	got, err := serde.DeserializeMap[int64](value.NewMap(map[string]any{"n": int64(9)}))
	if err != nil || !reflect.DeepEqual(got, map[string]int64{"n": 9}) {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestDeserialize_Pointers(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		got, err := serde.Deserialize[*int](value.NewInt64(5))
		if err != nil || got == nil || *got != 5 {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("nil", func(t *testing.T) {
		got, err := serde.Deserialize[*int](value.NewNil())
		if err != nil || got != nil {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("nil slice", func(t *testing.T) {
		got, err := serde.Deserialize[[]int](value.NewNil())
		if err != nil || got != nil {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("pointers in slice", func(t *testing.T) {
		got, err := serde.Deserialize[[]*int](value.NewSeq([]any{int64(1), nil}))
		if err != nil || len(got) != 2 || got[0] == nil || *got[0] != 1 || got[1] != nil {
			t.Errorf("got %v, %v", got, err)
		}
	})
}

func TestDeserialize_UnsupportedTargets(t *testing.T) {
	type plainStruct struct{ A int }

	_, err := serde.Deserialize[plainStruct](value.NewString("x"))
	if !errors.Is(err, serde.ErrUnsupportedTarget) {
		t.Fatalf("err = %v, want ErrUnsupportedTarget", err)
	}
	var te *serde.TargetError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TargetError", err)
	}

	if _, err := serde.Deserialize[error](value.NewString("x")); !errors.Is(err, serde.ErrUnsupportedTarget) {
		t.Errorf("non-empty interface: err = %v", err)
	}
	if _, err := serde.Deserialize[chan int](value.NewString("x")); !errors.Is(err, serde.ErrUnsupportedTarget) {
		t.Errorf("chan: err = %v", err)
	}
}

// upperString decodes itself, uppercasing whatever string arrives.
type upperString string

func (u *upperString) DeserializeFrom(d serde.Deserializer) error {
	s, err := serde.Deserialize[string](d)
	if err != nil {
		return err
	}
	*u = upperString(strings.ToUpper(s))
	return nil
}

func TestDeserialize_CustomTarget(t *testing.T) {
	got, err := serde.Deserialize[upperString](value.NewString("abc"))
	if err != nil || got != "ABC" {
		t.Errorf("got %q, %v", got, err)
	}

	t.Run("inside slice", func(t *testing.T) {
		got, err := serde.Deserialize[[]upperString](value.NewSeq([]any{"a", "b"}))
		if err != nil || !reflect.DeepEqual(got, []upperString{"A", "B"}) {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("behind pointer", func(t *testing.T) {
		got, err := serde.Deserialize[*upperString](value.NewString("x"))
		if err != nil || got == nil || *got != "X" {
			t.Errorf("got %v, %v", got, err)
		}
	})
}

// sumVisitor folds a sequence of integers with the typed element helper.
type sumVisitor struct {
	serde.Base
}

func (s sumVisitor) VisitSeq(seq serde.SeqAccess) (any, error) {
	total := 0
	for {
		n, ok, err := serde.NextElement[int](seq)
		if err != nil {
			return nil, err
		}
		if !ok {
			return total, nil
		}
		total += n
	}
}

func TestNextElement(t *testing.T) {
	out, err := value.NewSeq([]any{int64(1), int64(2), int64(3)}).DeserializeAny(sumVisitor{serde.Expects("a sequence of integers")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 6 {
		t.Errorf("out = %v, want 6", out)
	}
}

// pairVisitor collects map entries with the typed entry helper.
type pairVisitor struct {
	serde.Base
}

func (p pairVisitor) VisitMap(m serde.MapAccess) (any, error) {
	out := map[string]int{}
	for {
		k, v, ok, err := serde.NextEntry[string, int](m)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out[k] = v
	}
}

func TestNextEntry(t *testing.T) {
	out, err := value.NewMap(map[string]any{"a": int64(1), "b": int64(2)}).DeserializeAny(pairVisitor{serde.Expects("a map of integers")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(out, map[string]int{"a": 1, "b": 2}) {
		t.Errorf("out = %v", out)
	}
}
