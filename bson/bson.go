// Package bson deserializes BSON documents.
//
// The payload root is always a document and is reported as a map in
// document order. Int32 and int64 elements arrive as integers, doubles as
// floats, binary elements as byte sequences, ObjectIDs as their hex form,
// and datetimes as RFC 3339 text in UTC. Elements with no shape in the
// protocol, such as Decimal128 or regular expressions, fail with
// ErrUnsupported.
//
// The adapter is context-unaware: a context request degrades to
// serde.ErrContextUnsupported.
package bson

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ozars/serde"
)

// ContentType identifies this adapter in the format registry.
const ContentType = "application/bson"

func init() {
	serde.RegisterFormat(ContentType, func(data []byte) serde.Deserializer {
		return NewDeserializer(data)
	})
}

// ErrUnsupported indicates a BSON element with no shape in the protocol.
var ErrUnsupported = errors.New("unsupported bson element")

// Deserializer decodes a BSON document on first drive. It is single-use;
// sub-values streamed out of documents and arrays may be driven repeatedly
// since they walk the already-decoded tree.
type Deserializer struct {
	data     []byte
	consumed bool
}

// NewDeserializer returns an adapter over a BSON document.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

// DeserializeAny reports the root document as a map.
func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	if d.consumed {
		return nil, serde.NewConsumedError("bson")
	}
	d.consumed = true

	if len(d.data) == 0 {
		return nil, serde.NewNoContentError("bson")
	}

	var doc bson.D
	if err := bson.Unmarshal(d.data, &doc); err != nil {
		return nil, serde.NewSyntaxError("bson", err)
	}
	return walk(doc, v)
}

func walk(x any, v serde.Visitor) (any, error) {
	switch e := x.(type) {
	case nil:
		return v.VisitNil()
	case bool:
		return v.VisitBool(e)
	case int32:
		return v.VisitInt(int64(e))
	case int64:
		return v.VisitInt(e)
	case float64:
		return v.VisitFloat(e)
	case string:
		return v.VisitString(e)
	case primitive.Binary:
		return v.VisitBytes(e.Data)
	case primitive.ObjectID:
		return v.VisitString(e.Hex())
	case primitive.DateTime:
		return v.VisitString(e.Time().UTC().Format(time.RFC3339Nano))
	case bson.D:
		return v.VisitMap(&docAccess{elems: e})
	case bson.M:
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return v.VisitMap(&mapAccess{keys: keys, m: e})
	case bson.A:
		return v.VisitSeq(&seqAccess{elems: e})
	default:
		return nil, fmt.Errorf("%w %T", ErrUnsupported, x)
	}
}

// nodeDeserializer walks one decoded element. It holds no consumption
// state and may be driven repeatedly.
type nodeDeserializer struct {
	val any
}

func (d nodeDeserializer) DeserializeAny(v serde.Visitor) (any, error) {
	return walk(d.val, v)
}

type seqAccess struct {
	elems bson.A
	idx   int
}

func (a *seqAccess) NextElement() (serde.Deserializer, bool) {
	if a.idx >= len(a.elems) {
		return nil, false
	}
	e := a.elems[a.idx]
	a.idx++
	return nodeDeserializer{val: e}, true
}

// docAccess streams a document's elements in document order.
type docAccess struct {
	elems bson.D
	idx   int
}

func (a *docAccess) NextEntry() (key, val serde.Deserializer, ok bool) {
	if a.idx >= len(a.elems) {
		return nil, nil, false
	}
	e := a.elems[a.idx]
	a.idx++
	return nodeDeserializer{val: e.Key}, nodeDeserializer{val: e.Value}, true
}

// mapAccess streams unordered documents in sorted key order so repeated
// drives observe the same sequence.
type mapAccess struct {
	keys []string
	m    bson.M
	idx  int
}

func (a *mapAccess) NextEntry() (key, val serde.Deserializer, ok bool) {
	if a.idx >= len(a.keys) {
		return nil, nil, false
	}
	k := a.keys[a.idx]
	a.idx++
	return nodeDeserializer{val: k}, nodeDeserializer{val: a.m[k]}, true
}
