package serde

// ContextAccess is the capability handed to VisitContext. It answers two
// questions about the value being deserialized: where it sits in the input,
// and what it is.
//
// A capability is scoped to the VisitContext call that received it.
// Adapters may invalidate it once the callback returns, after which its
// methods fail with ErrExpiredContext.
type ContextAccess interface {
	// Span reports the byte range the value occupies in the adapter's
	// input.
	Span() (Span, error)

	// Inner returns a fresh deserializer positioned over the value
	// itself, so the visitor can decode it in addition to (not instead
	// of) reading the span. The returned deserializer outlives the
	// capability.
	Inner() (Deserializer, error)
}

// DeserializeContext drives d with a context-aware visitor. Adapters that
// implement ContextDeserializer are dispatched through the upgrade; all
// others are answered on their behalf by invoking v.VisitContext with a
// capability whose methods fail with ErrContextUnsupported. The visitor
// always ends up in VisitContext, and provenance is never fabricated.
func DeserializeContext(d Deserializer, v Visitor) (any, error) {
	if cd, ok := d.(ContextDeserializer); ok {
		return cd.DeserializeContext(v)
	}
	return v.VisitContext(NoContext())
}

// NoContext returns a ContextAccess whose Span and Inner both fail with
// ErrContextUnsupported. It stands in for a real capability when an adapter
// cannot supply provenance. Adapters honoring a context request they cannot
// answer for a particular value should pass it to VisitContext rather than
// invent a span.
func NoContext() ContextAccess {
	return noContext{}
}

type noContext struct{}

func (noContext) Span() (Span, error) {
	return Span{}, ErrContextUnsupported
}

func (noContext) Inner() (Deserializer, error) {
	return nil, ErrContextUnsupported
}

// InnerValue decodes the capability's inner value as a T. It is the typed
// convenience over ContextAccess.Inner for visitors that want the value and
// span together.
func InnerValue[T any](cx ContextAccess) (T, error) {
	d, err := cx.Inner()
	if err != nil {
		var zero T
		return zero, err
	}
	return Deserialize[T](d)
}
