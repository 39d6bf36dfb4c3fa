package serde

import (
	"encoding/base64"
	"math"
	"reflect"
	"strconv"
)

// Deserialize decodes the value d is positioned over into a T.
//
// Targets are filled by kind:
//
//   - types implementing Deserializable decode themselves
//   - bool, string, integer, unsigned, and float types accept the matching
//     shape, with range-checked narrowing
//   - []byte accepts a byte sequence directly or a base64-encoded string
//   - any accepts every shape, producing bool, int64, uint64, float64,
//     string, []byte, nil, []any, or map[string]any
//   - slices, maps, and pointers recurse element-wise; pointer targets
//     additionally map nil to a nil pointer
//
// Struct types that do not implement Deserializable are refused with a
// TargetError rather than filled by reflection.
func Deserialize[T any](d Deserializer) (T, error) {
	var out T
	err := deserializeInto(d, reflect.ValueOf(&out).Elem())
	return out, err
}

// NextElement decodes the next sequence element as a T. The bool result
// reports whether an element was present.
func NextElement[T any](seq SeqAccess) (T, bool, error) {
	d, ok := seq.NextElement()
	if !ok {
		var zero T
		return zero, false, nil
	}
	v, err := Deserialize[T](d)
	return v, true, err
}

// DeserializeSlice decodes a sequence into a []T.
func DeserializeSlice[T any](d Deserializer) ([]T, error) {
	return Deserialize[[]T](d)
}

// DeserializeMap decodes a map with string keys into a map[string]V.
func DeserializeMap[V any](d Deserializer) (map[string]V, error) {
	return Deserialize[map[string]V](d)
}

// NextEntry decodes the next map entry as a K and V. The bool result
// reports whether an entry was present.
func NextEntry[K comparable, V any](m MapAccess) (K, V, bool, error) {
	kd, vd, ok := m.NextEntry()
	if !ok {
		var zk K
		var zv V
		return zk, zv, false, nil
	}
	k, err := Deserialize[K](kd)
	if err != nil {
		var zv V
		return k, zv, true, err
	}
	v, err := Deserialize[V](vd)
	return k, v, true, err
}

// deserializeInto fills the addressable destination rv by driving d with a
// visitor chosen from rv's type.
func deserializeInto(d Deserializer, rv reflect.Value) error {
	if target, ok := rv.Addr().Interface().(Deserializable); ok {
		return target.DeserializeFrom(d)
	}
	if rv.Kind() == reflect.Pointer {
		// The pointee may decode itself. Custom logic owns shape
		// handling there, including nil.
		pv := reflect.New(rv.Type().Elem())
		if target, ok := pv.Interface().(Deserializable); ok {
			if err := target.DeserializeFrom(d); err != nil {
				return err
			}
			rv.Set(pv)
			return nil
		}
	}
	v, finish, err := visitorFor(rv.Type())
	if err != nil {
		return err
	}
	out, err := d.DeserializeAny(v)
	if err != nil {
		return err
	}
	got, err := finish(out)
	if err != nil {
		return err
	}
	rv.Set(got)
	return nil
}

// finisher converts a visitor result into a value of the target type.
type finisher func(out any) (reflect.Value, error)

// visitorFor selects the visitor and finisher for a target type.
func visitorFor(t reflect.Type) (Visitor, finisher, error) {
	switch t.Kind() {
	case reflect.Bool:
		return boolVisitor{Expects("a boolean")}, convertFinisher(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intVisitor{Expects("an integer")}, intFinisher(t), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintVisitor{Expects("an unsigned integer")}, uintFinisher(t), nil

	case reflect.Float32, reflect.Float64:
		return floatVisitor{Expects("a number")}, floatFinisher(t), nil

	case reflect.String:
		return stringVisitor{Expects("a string")}, convertFinisher(t), nil

	case reflect.Interface:
		if t.NumMethod() != 0 {
			return nil, nil, newTargetError(t.String(), "non-empty interface targets are not supported")
		}
		return anyVisitor{Expects("a value")}, anyFinisher(t), nil

	case reflect.Slice:
		if t.Elem() == byteType {
			return bytesVisitor{Expects("a byte sequence")}, bytesFinisher(t), nil
		}
		return seqVisitor{Base: Expects("a sequence"), typ: t}, valueFinisher(), nil

	case reflect.Map:
		return mapVisitor{Base: Expects("a map"), typ: t}, valueFinisher(), nil

	case reflect.Pointer:
		inner, innerFinish, err := visitorFor(t.Elem())
		if err != nil {
			return nil, nil, err
		}
		return ptrVisitor{inner: inner}, ptrFinisher(t, innerFinish), nil

	case reflect.Struct:
		return nil, nil, newTargetError(t.String(), "implement Deserializable for struct targets")

	default:
		return nil, nil, newTargetError(t.String(), "type cannot be deserialized")
	}
}

var byteType = reflect.TypeFor[byte]()

// convertFinisher converts the visitor result to t, which must be
// convertible from the result's dynamic type.
func convertFinisher(t reflect.Type) finisher {
	return func(out any) (reflect.Value, error) {
		return reflect.ValueOf(out).Convert(t), nil
	}
}

// valueFinisher unboxes a reflect.Value built by a container visitor.
func valueFinisher() finisher {
	return func(out any) (reflect.Value, error) {
		return out.(reflect.Value), nil
	}
}

func intFinisher(t reflect.Type) finisher {
	return func(out any) (reflect.Value, error) {
		n := out.(int64)
		rv := reflect.New(t).Elem()
		if rv.OverflowInt(n) {
			return reflect.Value{}, NewRangeError(strconv.FormatInt(n, 10), t.String())
		}
		rv.SetInt(n)
		return rv, nil
	}
}

func uintFinisher(t reflect.Type) finisher {
	return func(out any) (reflect.Value, error) {
		u := out.(uint64)
		rv := reflect.New(t).Elem()
		if rv.OverflowUint(u) {
			return reflect.Value{}, NewRangeError(strconv.FormatUint(u, 10), t.String())
		}
		rv.SetUint(u)
		return rv, nil
	}
}

func floatFinisher(t reflect.Type) finisher {
	return func(out any) (reflect.Value, error) {
		f := out.(float64)
		rv := reflect.New(t).Elem()
		if rv.OverflowFloat(f) {
			return reflect.Value{}, NewRangeError(strconv.FormatFloat(f, 'g', -1, 64), t.String())
		}
		rv.SetFloat(f)
		return rv, nil
	}
}

func bytesFinisher(t reflect.Type) finisher {
	return func(out any) (reflect.Value, error) {
		rv := reflect.New(t).Elem()
		rv.SetBytes(out.([]byte))
		return rv, nil
	}
}

func anyFinisher(t reflect.Type) finisher {
	return func(out any) (reflect.Value, error) {
		if out == nil {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(out), nil
	}
}

func ptrFinisher(t reflect.Type, inner finisher) finisher {
	return func(out any) (reflect.Value, error) {
		if _, ok := out.(nilMarker); ok {
			return reflect.Zero(t), nil
		}
		ev, err := inner(out)
		if err != nil {
			return reflect.Value{}, err
		}
		pv := reflect.New(t.Elem())
		pv.Elem().Set(ev)
		return pv, nil
	}
}

type boolVisitor struct{ Base }

func (boolVisitor) VisitBool(v bool) (any, error) {
	return v, nil
}

type intVisitor struct{ Base }

func (intVisitor) VisitInt(v int64) (any, error) {
	return v, nil
}

func (intVisitor) VisitUint(v uint64) (any, error) {
	if v > math.MaxInt64 {
		return nil, NewRangeError(strconv.FormatUint(v, 10), "int64")
	}
	return int64(v), nil
}

type uintVisitor struct{ Base }

func (uintVisitor) VisitUint(v uint64) (any, error) {
	return v, nil
}

func (uintVisitor) VisitInt(v int64) (any, error) {
	if v < 0 {
		return nil, NewRangeError(strconv.FormatInt(v, 10), "uint64")
	}
	return uint64(v), nil
}

type floatVisitor struct{ Base }

func (floatVisitor) VisitFloat(v float64) (any, error) {
	return v, nil
}

func (floatVisitor) VisitInt(v int64) (any, error) {
	return float64(v), nil
}

func (floatVisitor) VisitUint(v uint64) (any, error) {
	return float64(v), nil
}

type stringVisitor struct{ Base }

func (stringVisitor) VisitString(v string) (any, error) {
	return v, nil
}

type bytesVisitor struct{ Base }

func (bytesVisitor) VisitBytes(v []byte) (any, error) {
	return append([]byte(nil), v...), nil
}

func (b bytesVisitor) VisitString(v string) (any, error) {
	decoded, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, NewTypeError("string "+strconv.Quote(v), b.Expecting())
	}
	return decoded, nil
}

// seqVisitor collects sequence elements into a slice of typ.
type seqVisitor struct {
	Base
	typ reflect.Type
}

func (v seqVisitor) VisitSeq(seq SeqAccess) (any, error) {
	out := reflect.MakeSlice(v.typ, 0, 8)
	elem := v.typ.Elem()
	for {
		ed, ok := seq.NextElement()
		if !ok {
			break
		}
		ev := reflect.New(elem).Elem()
		if err := deserializeInto(ed, ev); err != nil {
			return nil, err
		}
		out = reflect.Append(out, ev)
	}
	return out, nil
}

func (v seqVisitor) VisitNil() (any, error) {
	return reflect.Zero(v.typ), nil
}

// mapVisitor collects map entries into a map of typ.
type mapVisitor struct {
	Base
	typ reflect.Type
}

func (v mapVisitor) VisitMap(m MapAccess) (any, error) {
	out := reflect.MakeMapWithSize(v.typ, 8)
	kt, vt := v.typ.Key(), v.typ.Elem()
	for {
		kd, vd, ok := m.NextEntry()
		if !ok {
			break
		}
		kv := reflect.New(kt).Elem()
		if err := deserializeInto(kd, kv); err != nil {
			return nil, err
		}
		vv := reflect.New(vt).Elem()
		if err := deserializeInto(vd, vv); err != nil {
			return nil, err
		}
		out.SetMapIndex(kv, vv)
	}
	return out, nil
}

func (v mapVisitor) VisitNil() (any, error) {
	return reflect.Zero(v.typ), nil
}

// anyVisitor accepts every shape, mirroring each into its natural Go value.
type anyVisitor struct{ Base }

func (anyVisitor) VisitBool(v bool) (any, error) {
	return v, nil
}

func (anyVisitor) VisitInt(v int64) (any, error) {
	return v, nil
}

func (anyVisitor) VisitUint(v uint64) (any, error) {
	return v, nil
}

func (anyVisitor) VisitFloat(v float64) (any, error) {
	return v, nil
}

func (anyVisitor) VisitString(v string) (any, error) {
	return v, nil
}

func (anyVisitor) VisitBytes(v []byte) (any, error) {
	return append([]byte(nil), v...), nil
}

func (anyVisitor) VisitNil() (any, error) {
	return nil, nil
}

func (a anyVisitor) VisitSeq(seq SeqAccess) (any, error) {
	out := []any{}
	for {
		ed, ok := seq.NextElement()
		if !ok {
			return out, nil
		}
		v, err := ed.DeserializeAny(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func (a anyVisitor) VisitMap(m MapAccess) (any, error) {
	out := map[string]any{}
	for {
		kd, vd, ok := m.NextEntry()
		if !ok {
			return out, nil
		}
		k, err := Deserialize[string](kd)
		if err != nil {
			return nil, err
		}
		v, err := vd.DeserializeAny(a)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
}

// nilMarker is returned by ptrVisitor.VisitNil so the finisher can tell a
// nil shape apart from a decoded inner value.
type nilMarker struct{}

// ptrVisitor delegates every shape to the pointee's visitor except nil,
// which short-circuits to a nil pointer.
type ptrVisitor struct {
	inner Visitor
}

func (v ptrVisitor) Expecting() string {
	return v.inner.Expecting()
}

func (v ptrVisitor) VisitBool(b bool) (any, error) {
	return v.inner.VisitBool(b)
}

func (v ptrVisitor) VisitInt(n int64) (any, error) {
	return v.inner.VisitInt(n)
}

func (v ptrVisitor) VisitUint(n uint64) (any, error) {
	return v.inner.VisitUint(n)
}

func (v ptrVisitor) VisitFloat(f float64) (any, error) {
	return v.inner.VisitFloat(f)
}

func (v ptrVisitor) VisitString(s string) (any, error) {
	return v.inner.VisitString(s)
}

func (v ptrVisitor) VisitBytes(b []byte) (any, error) {
	return v.inner.VisitBytes(b)
}

func (v ptrVisitor) VisitNil() (any, error) {
	return nilMarker{}, nil
}

func (v ptrVisitor) VisitSeq(seq SeqAccess) (any, error) {
	return v.inner.VisitSeq(seq)
}

func (v ptrVisitor) VisitMap(m MapAccess) (any, error) {
	return v.inner.VisitMap(m)
}

func (v ptrVisitor) VisitContext(cx ContextAccess) (any, error) {
	return v.inner.VisitContext(cx)
}
