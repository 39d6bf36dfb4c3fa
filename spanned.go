package serde

// Spanned pairs a decoded value with the span it occupied in the input.
// It is the reference consumer of the context channel: deserializing a
// Spanned[T] succeeds only when the adapter can report provenance, and
// fails with ErrContextUnsupported when it cannot.
//
//	sp, err := serde.Deserialize[serde.Spanned[string]](d)
type Spanned[T any] struct {
	Value T
	Span  Span
}

// DeserializeFrom implements Deserializable. It requests context from d,
// decodes the inner value as a T, and records the reported span.
func (s *Spanned[T]) DeserializeFrom(d Deserializer) error {
	out, err := DeserializeContext(d, spannedVisitor[T]{Base: Expects("a spanned value")})
	if err != nil {
		return err
	}
	*s = out.(Spanned[T])
	return nil
}

// spannedVisitor accepts only the context shape. Every other callback
// rejects through Base, and a context request against a context-unaware
// adapter lands in VisitContext with a dead capability, so both mismatch
// directions produce ErrContextUnsupported.
type spannedVisitor[T any] struct {
	Base
}

func (spannedVisitor[T]) VisitContext(cx ContextAccess) (any, error) {
	inner, err := InnerValue[T](cx)
	if err != nil {
		return nil, err
	}
	span, err := cx.Span()
	if err != nil {
		return nil, err
	}
	return Spanned[T]{Value: inner, Span: span}, nil
}
