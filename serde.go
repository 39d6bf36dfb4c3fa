// Package serde provides format-agnostic deserialization through double
// dispatch between format adapters and typed visitors.
//
// A format adapter (Deserializer) reads encoded input and reports the shape
// of the value it finds by invoking exactly one callback on a Visitor. The
// visitor converts that shape into an in-memory value. Neither side depends
// on the other's concrete type, so any adapter can drive any visitor without
// an intermediate value tree.
//
// # Shapes
//
// Adapters report values through a fixed shape menu:
//
//   - booleans, integers, unsigned integers, floats
//   - strings and byte sequences
//   - nil (null/absent)
//   - sequences and maps, delivered as streams of sub-deserializers
//   - context, an opt-in channel for input provenance
//
// # Context
//
// Context extends the protocol with metadata about where a value came from,
// without threading that metadata through every call. A visitor that wants
// provenance is driven through DeserializeContext; an adapter that can
// supply provenance implements ContextDeserializer. When both sides opt in,
// the visitor receives a ContextAccess capability carrying the value's span
// in the original input plus access to the value itself. When either side
// does not, the exchange degrades to a fixed error rather than fabricated
// metadata.
//
// # Basic Usage
//
//	d := plain.NewDeserializer("   test  ")
//	sp, err := serde.Deserialize[serde.Spanned[string]](d)
//	// sp.Value == "test", sp.Span == serde.Span{Start: 3, End: 7}
//
// Plain values work the same way without context:
//
//	n, err := serde.Deserialize[int](lit.NewDeserializer("42"))
//
// # Custom Targets
//
// Types decode themselves by implementing Deserializable:
//
//	func (id *UserID) DeserializeFrom(d serde.Deserializer) error {
//	    s, err := serde.Deserialize[string](d)
//	    ...
//	}
//
// # Format Adapters
//
// The following adapters are available as subpackages:
//
//   - plain - whitespace-trimmed text (text/plain), context-aware
//   - lit - scalar literals (text/x-literal), context-aware
//   - json - JSON documents (application/json), context-aware
//   - yaml - YAML documents (application/yaml)
//   - toml - TOML documents (application/toml)
//   - msgpack - MessagePack payloads (application/msgpack)
//   - bson - BSON documents (application/bson)
//
// Each adapter registers itself with the format registry on import, so
// content-type driven decoding needs only a blank import:
//
//	import _ "github.com/ozars/serde/json"
//
//	user, err := serde.Decode[User](ctx, "application/json", body)
package serde

// Deserializer is a format adapter positioned over a single encoded value.
// DeserializeAny inspects the input and invokes exactly one callback on v,
// chosen by the shape of the value found there. The callback's result is
// returned unchanged.
//
// Adapters over real input are typically single-use: a second call to
// DeserializeAny fails with ErrConsumed. Adapters over already-decoded
// values may be driven any number of times.
type Deserializer interface {
	DeserializeAny(v Visitor) (any, error)
}

// ContextDeserializer is implemented by adapters that can describe where a
// value sits in the original input. DeserializeContext invokes v.VisitContext
// with a capability scoped to that call; the capability must not be retained
// after the callback returns.
//
// Adapters that cannot supply provenance do not implement this interface.
// DeserializeContext (the package-level driver) detects the upgrade and
// degrades when it is absent.
type ContextDeserializer interface {
	Deserializer

	DeserializeContext(v Visitor) (any, error)
}

// Visitor converts a value of some shape into an in-memory result.
// A deserializer invokes exactly one callback per driven value.
//
// Embed a Base to implement only the shapes a visitor accepts; the
// remaining callbacks reject with a type error built from the visitor's
// Expecting text.
type Visitor interface {
	// Expecting describes what the visitor accepts, phrased as a noun
	// clause ("a string", "a spanned value"). It appears in type errors.
	Expecting() string

	VisitBool(v bool) (any, error)
	VisitInt(v int64) (any, error)
	VisitUint(v uint64) (any, error)
	VisitFloat(v float64) (any, error)
	VisitString(v string) (any, error)
	VisitBytes(v []byte) (any, error)
	VisitNil() (any, error)
	VisitSeq(seq SeqAccess) (any, error)
	VisitMap(m MapAccess) (any, error)

	// VisitContext receives a capability for span and inner-value access.
	// It is invoked only through the context channel, never by
	// DeserializeAny. The capability is valid only until the callback
	// returns.
	VisitContext(cx ContextAccess) (any, error)
}

// SeqAccess streams the elements of a sequence. Each element arrives as a
// fresh sub-deserializer positioned over that element alone.
type SeqAccess interface {
	// NextElement returns the next element's deserializer, or ok=false
	// once the sequence is exhausted.
	NextElement() (d Deserializer, ok bool)
}

// MapAccess streams the entries of a map in the order the format delivers
// them. Key and value arrive as separate sub-deserializers.
type MapAccess interface {
	// NextEntry returns deserializers for the next entry's key and value,
	// or ok=false once the map is exhausted.
	NextEntry() (key, value Deserializer, ok bool)
}

// Deserializable allows types to provide their own decoding logic.
// DeserializeFrom drives d with whatever visitor the type needs and fills
// the receiver in place, so implementations use a pointer receiver.
//
// Deserialize checks for this interface before applying its built-in
// target handling, both at the top level and inside sequences, maps, and
// pointers.
type Deserializable interface {
	DeserializeFrom(d Deserializer) error
}
