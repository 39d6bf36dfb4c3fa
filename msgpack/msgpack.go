// Package msgpack deserializes MessagePack payloads.
//
// Integers arrive as integers, floats as floats, raw binary as byte
// sequences, and maps in decoded order with string or arbitrary keys.
//
// The adapter is context-unaware: a context request degrades to
// serde.ErrContextUnsupported.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ozars/serde"
	"github.com/ozars/serde/value"
)

// ContentType identifies this adapter in the format registry.
const ContentType = "application/msgpack"

func init() {
	serde.RegisterFormat(ContentType, func(data []byte) serde.Deserializer {
		return NewDeserializer(data)
	})
}

// Deserializer decodes a MessagePack payload on first drive. It is
// single-use.
type Deserializer struct {
	data     []byte
	consumed bool
}

// NewDeserializer returns an adapter over a MessagePack payload.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

// DeserializeAny reports the payload's value through the callback matching
// its decoded shape.
func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	if d.consumed {
		return nil, serde.NewConsumedError("msgpack")
	}
	d.consumed = true

	if len(d.data) == 0 {
		return nil, serde.NewNoContentError("msgpack")
	}

	var out any
	if err := msgpack.Unmarshal(d.data, &out); err != nil {
		return nil, serde.NewSyntaxError("msgpack", err)
	}
	return value.NewAny(out).DeserializeAny(v)
}
