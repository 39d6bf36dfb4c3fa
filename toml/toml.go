// Package toml deserializes TOML documents.
//
// The document root is always a table and is reported as a map. Integers
// arrive as integers, floats as floats, and datetimes as RFC 3339 text.
// Arrays of tables stream as sequences of maps.
//
// The adapter is context-unaware: a context request degrades to
// serde.ErrContextUnsupported.
package toml

import (
	"bytes"

	"github.com/BurntSushi/toml"

	"github.com/ozars/serde"
	"github.com/ozars/serde/value"
)

// ContentType identifies this adapter in the format registry.
const ContentType = "application/toml"

func init() {
	serde.RegisterFormat(ContentType, func(data []byte) serde.Deserializer {
		return NewDeserializer(data)
	})
}

// Deserializer decodes a TOML document on first drive. It is single-use.
type Deserializer struct {
	data     []byte
	consumed bool
}

// NewDeserializer returns an adapter over a TOML document.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

// DeserializeAny reports the document's root table as a map.
func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	if d.consumed {
		return nil, serde.NewConsumedError("toml")
	}
	d.consumed = true

	if len(bytes.TrimSpace(d.data)) == 0 {
		return nil, serde.NewNoContentError("toml")
	}

	var m map[string]any
	if err := toml.Unmarshal(d.data, &m); err != nil {
		return nil, serde.NewSyntaxError("toml", err)
	}
	return value.NewAny(normalize(m)).DeserializeAny(v)
}

// normalize rewrites the decoded tree into the canonical shapes the value
// package understands. Arrays of tables decode as []map[string]any and are
// widened to []any here.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
