// Package value provides deserializers over values already resident in
// memory. Each deserializer reports the shape its Go value naturally has:
// a bool visits VisitBool, a []any visits VisitSeq, and so on.
//
// Value deserializers hold no position state and may be driven any number
// of times. None of them implement serde.ContextDeserializer, so a context
// request against one degrades to serde.ErrContextUnsupported.
package value

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ozars/serde"
)

// ErrUnsupported indicates a Go value with no shape in the protocol.
var ErrUnsupported = errors.New("unsupported source value")

// NewBool returns a deserializer reporting v as a boolean.
func NewBool(v bool) serde.Deserializer {
	return boolDeserializer(v)
}

// NewInt64 returns a deserializer reporting v as an integer.
func NewInt64(v int64) serde.Deserializer {
	return intDeserializer(v)
}

// NewUint64 returns a deserializer reporting v as an unsigned integer.
func NewUint64(v uint64) serde.Deserializer {
	return uintDeserializer(v)
}

// NewFloat64 returns a deserializer reporting v as a float.
func NewFloat64(v float64) serde.Deserializer {
	return floatDeserializer(v)
}

// NewString returns a deserializer reporting v as a string.
func NewString(v string) serde.Deserializer {
	return stringDeserializer(v)
}

// NewBytes returns a deserializer reporting v as a byte sequence.
func NewBytes(v []byte) serde.Deserializer {
	return bytesDeserializer(v)
}

// NewNil returns a deserializer reporting the nil shape.
func NewNil() serde.Deserializer {
	return nilDeserializer{}
}

// NewSeq returns a deserializer reporting v as a sequence. Elements are
// wrapped through NewAny as they are streamed.
func NewSeq(v []any) serde.Deserializer {
	return seqDeserializer(v)
}

// NewMap returns a deserializer reporting v as a map. Entries are streamed
// in sorted key order so repeated drives observe the same sequence.
func NewMap(v map[string]any) serde.Deserializer {
	return mapDeserializer(v)
}

// NewAny wraps an arbitrary decoded value in the deserializer matching its
// dynamic type. Supported types are nil, bool, strings, Go integer and
// float types, []byte, []any, map[string]any, map[any]any, and time.Time
// (reported as RFC 3339 text). Anything else yields a deserializer that
// fails with ErrUnsupported.
func NewAny(v any) serde.Deserializer {
	switch x := v.(type) {
	case nil:
		return NewNil()
	case bool:
		return NewBool(x)
	case string:
		return NewString(x)
	case int:
		return NewInt64(int64(x))
	case int8:
		return NewInt64(int64(x))
	case int16:
		return NewInt64(int64(x))
	case int32:
		return NewInt64(int64(x))
	case int64:
		return NewInt64(x)
	case uint:
		return NewUint64(uint64(x))
	case uint8:
		return NewUint64(uint64(x))
	case uint16:
		return NewUint64(uint64(x))
	case uint32:
		return NewUint64(uint64(x))
	case uint64:
		return NewUint64(x)
	case float32:
		return NewFloat64(float64(x))
	case float64:
		return NewFloat64(x)
	case []byte:
		return NewBytes(x)
	case []any:
		return NewSeq(x)
	case map[string]any:
		return NewMap(x)
	case map[any]any:
		return anyMapDeserializer(x)
	case time.Time:
		return NewString(x.Format(time.RFC3339Nano))
	default:
		return unsupportedDeserializer{typ: fmt.Sprintf("%T", v)}
	}
}

type boolDeserializer bool

func (d boolDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitBool(bool(d))
}

type intDeserializer int64

func (d intDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitInt(int64(d))
}

type uintDeserializer uint64

func (d uintDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitUint(uint64(d))
}

type floatDeserializer float64

func (d floatDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitFloat(float64(d))
}

type stringDeserializer string

func (d stringDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitString(string(d))
}

type bytesDeserializer []byte

func (d bytesDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitBytes([]byte(d))
}

type nilDeserializer struct{}

func (nilDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitNil()
}

type seqDeserializer []any

func (d seqDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return v.VisitSeq(&seqAccess{elems: d})
}

type seqAccess struct {
	elems []any
	idx   int
}

func (a *seqAccess) NextElement() (serde.Deserializer, bool) {
	if a.idx >= len(a.elems) {
		return nil, false
	}
	d := NewAny(a.elems[a.idx])
	a.idx++
	return d, true
}

type mapDeserializer map[string]any

func (d mapDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return v.VisitMap(&mapAccess{keys: keys, m: d})
}

type mapAccess struct {
	keys []string
	m    map[string]any
	idx  int
}

func (a *mapAccess) NextEntry() (key, val serde.Deserializer, ok bool) {
	if a.idx >= len(a.keys) {
		return nil, nil, false
	}
	k := a.keys[a.idx]
	a.idx++
	return NewString(k), NewAny(a.m[k]), true
}

// anyMapDeserializer handles maps with non-string keys, ordering entries by
// the key's rendered form.
type anyMapDeserializer map[any]any

func (d anyMapDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	keys := make([]any, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
	return v.VisitMap(&anyMapAccess{keys: keys, m: d})
}

type anyMapAccess struct {
	keys []any
	m    map[any]any
	idx  int
}

func (a *anyMapAccess) NextEntry() (key, val serde.Deserializer, ok bool) {
	if a.idx >= len(a.keys) {
		return nil, nil, false
	}
	k := a.keys[a.idx]
	a.idx++
	return NewAny(k), NewAny(a.m[k]), true
}

type unsupportedDeserializer struct {
	typ string
}

func (d unsupportedDeserializer) DeserializeAny(serde.Visitor) (any, error) {
	return nil, fmt.Errorf("%w %s", ErrUnsupported, d.typ)
}
