package serde

import "fmt"

// Span identifies the half-open byte range [Start, End) a value occupies in
// a deserializer's original input. Offsets always fall on code point
// boundaries of the input text, so slicing by a span never splits a
// character.
//
// A span is relative to the input of the adapter that produced it. Spans
// from an inner adapter obtained through ContextAccess.Inner are relative
// to that adapter's own input, not the outer document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsValid reports whether the span is well formed for input of n bytes.
func (s Span) IsValid(n int) bool {
	return 0 <= s.Start && s.Start <= s.End && s.End <= n
}

// Text returns the portion of input the span covers.
func (s Span) Text(input string) string {
	return input[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
