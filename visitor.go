package serde

import (
	"fmt"
	"strconv"
)

// Base provides rejecting defaults for every Visitor callback. Embed it and
// override only the shapes the visitor accepts:
//
//	type colorVisitor struct{ serde.Base }
//
//	func (colorVisitor) VisitString(v string) (any, error) {
//	    return parseColor(v)
//	}
//
//	v := colorVisitor{serde.Expects("a color name")}
//
// A callback left unoverridden fails with a TypeError naming the rejected
// shape and the Expecting text. VisitContext instead fails with
// ErrContextUnsupported, matching what a context-unaware adapter reports.
type Base struct {
	expecting string
}

// Expects returns a Base whose type errors report desc as the expected
// shape. Phrase desc as a noun clause: "a string", "a spanned value".
func Expects(desc string) Base {
	return Base{expecting: desc}
}

// Expecting implements Visitor.
func (b Base) Expecting() string {
	return b.expecting
}

func (b Base) VisitBool(v bool) (any, error) {
	return nil, b.reject("boolean " + strconv.FormatBool(v))
}

func (b Base) VisitInt(v int64) (any, error) {
	return nil, b.reject("integer " + strconv.FormatInt(v, 10))
}

func (b Base) VisitUint(v uint64) (any, error) {
	return nil, b.reject("unsigned integer " + strconv.FormatUint(v, 10))
}

func (b Base) VisitFloat(v float64) (any, error) {
	return nil, b.reject("float " + strconv.FormatFloat(v, 'g', -1, 64))
}

func (b Base) VisitString(v string) (any, error) {
	return nil, b.reject("string " + strconv.Quote(v))
}

func (b Base) VisitBytes(v []byte) (any, error) {
	return nil, b.reject(fmt.Sprintf("%d raw bytes", len(v)))
}

func (b Base) VisitNil() (any, error) {
	return nil, b.reject("nil")
}

func (b Base) VisitSeq(SeqAccess) (any, error) {
	return nil, b.reject("sequence")
}

func (b Base) VisitMap(MapAccess) (any, error) {
	return nil, b.reject("map")
}

func (b Base) VisitContext(ContextAccess) (any, error) {
	return nil, ErrContextUnsupported
}

func (b Base) reject(got string) error {
	return NewTypeError(got, b.expecting)
}
