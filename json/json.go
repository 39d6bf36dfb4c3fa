// Package json deserializes JSON documents.
//
// Values are reported shape for shape: null, booleans, numbers (as
// integers when the literal has no fraction or exponent), strings, arrays
// as sequences, and objects as maps in document order. []byte targets work
// through base64-encoded strings, matching encoding/json.
//
// The adapter is context-aware. Spans cover the value's raw token in the
// document, quotes and brackets included, and are tracked through
// structural descent, so members of arrays and objects carry spans in
// whole-document offsets. An inner deserializer obtained through context is
// a fresh adapter over the value's own sub-document, with spans relative to
// that sub-document.
package json

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ozars/serde"
)

// ContentType identifies this adapter in the format registry.
const ContentType = "application/json"

func init() {
	serde.RegisterFormat(ContentType, func(data []byte) serde.Deserializer {
		return NewDeserializer(data)
	})
}

// Option configures a Deserializer.
type Option func(*Deserializer)

// WithPath positions the adapter over the value at a gjson path expression
// instead of the document root. A path that matches nothing fails with
// serde.ErrNoContent at decode time.
func WithPath(path string) Option {
	return func(d *Deserializer) {
		d.path = path
	}
}

// Deserializer is positioned over one JSON value. It is single-use: a
// second drive fails with serde.ErrConsumed. Sub-values streamed out of
// sequences and maps arrive as fresh single-use adapters.
type Deserializer struct {
	src      string
	path     string
	consumed bool

	// Populated at load for the root, at construction for sub-values.
	sub       bool
	res       gjson.Result
	span      serde.Span
	spanKnown bool
}

// NewDeserializer returns an adapter over a JSON document.
func NewDeserializer(data []byte, opts ...Option) *Deserializer {
	d := &Deserializer{src: string(data)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// newSub builds an adapter for a value reached by structural descent.
func newSub(src string, res gjson.Result, span serde.Span, known bool) *Deserializer {
	return &Deserializer{
		src:       src,
		sub:       true,
		res:       res,
		span:      span,
		spanKnown: known,
	}
}

// DeserializeAny reports the value through the callback matching its JSON
// type.
func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	return d.dispatch(v)
}

// DeserializeContext reports the value through the context channel. When
// the value's position is known the capability carries its span and an
// inner adapter over the value's sub-document; when it is not, the visitor
// receives serde.NoContext instead of a fabricated span.
func (d *Deserializer) DeserializeContext(v serde.Visitor) (any, error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	if !d.spanKnown {
		return v.VisitContext(serde.NoContext())
	}
	acc := &contextAccess{span: d.span, text: d.span.Text(d.src)}
	defer acc.expire()
	return v.VisitContext(acc)
}

func (d *Deserializer) begin() error {
	if d.consumed {
		return serde.NewConsumedError("json")
	}
	d.consumed = true
	if d.sub {
		return nil
	}
	return d.load()
}

// load parses the root document and resolves the configured path.
func (d *Deserializer) load() error {
	if strings.TrimSpace(d.src) == "" {
		return serde.NewNoContentError("json")
	}
	if !gjson.Valid(d.src) {
		return serde.NewSyntaxError("json", errors.New("invalid document"))
	}

	if d.path != "" {
		res := gjson.Get(d.src, d.path)
		if !res.Exists() {
			return serde.NewNoContentError("json")
		}
		d.res = res
		// Trust the reported index only when the document bytes agree.
		if idx := res.Index; idx > 0 && idx+len(res.Raw) <= len(d.src) && d.src[idx:idx+len(res.Raw)] == res.Raw {
			d.span, d.spanKnown = valueSpan(d.src, idx, res)
		}
		return nil
	}

	d.res = gjson.Parse(d.src)
	start := 0
	for start < len(d.src) && isJSONSpace(d.src[start]) {
		start++
	}
	d.span, d.spanKnown = valueSpan(d.src, start, d.res)
	return nil
}

func (d *Deserializer) dispatch(v serde.Visitor) (any, error) {
	switch d.res.Type {
	case gjson.Null:
		return v.VisitNil()
	case gjson.False:
		return v.VisitBool(false)
	case gjson.True:
		return v.VisitBool(true)
	case gjson.String:
		return v.VisitString(d.res.Str)
	case gjson.Number:
		return dispatchNumber(d.res, v)
	case gjson.JSON:
		if d.res.IsArray() {
			return v.VisitSeq(newSeqAccess(d))
		}
		if d.res.IsObject() {
			return v.VisitMap(newMapAccess(d))
		}
	}
	return nil, serde.NewSyntaxError("json", fmt.Errorf("unexpected value %q", clip(d.res.Raw)))
}

// dispatchNumber picks the numeric callback from the literal form: a
// fraction or exponent means float, otherwise integer, falling back to
// unsigned and then float on range.
func dispatchNumber(res gjson.Result, v serde.Visitor) (any, error) {
	raw := res.Raw
	if idx := strings.IndexAny(raw, " \t\n\r,]}"); idx >= 0 {
		raw = raw[:idx]
	}
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v.VisitInt(i)
		}
		if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return v.VisitUint(u)
		}
	}
	return v.VisitFloat(res.Num)
}

func clip(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}

// seqAccess walks an array, carrying a byte cursor so element spans stay in
// whole-document offsets.
type seqAccess struct {
	src   string
	elems []gjson.Result
	idx   int
	pos   int // offset just past the last consumed token; -1 when unknown
}

func newSeqAccess(d *Deserializer) *seqAccess {
	a := &seqAccess{src: d.src, pos: -1}
	d.res.ForEach(func(_, v gjson.Result) bool {
		a.elems = append(a.elems, v)
		return true
	})
	if d.spanKnown {
		a.pos = d.span.Start + 1 // just past "["
	}
	return a
}

func (a *seqAccess) NextElement() (serde.Deserializer, bool) {
	if a.idx >= len(a.elems) {
		return nil, false
	}
	res := a.elems[a.idx]
	a.idx++

	var span serde.Span
	known := false
	if a.pos >= 0 {
		start := skipSeparators(a.src, a.pos)
		span, known = valueSpan(a.src, start, res)
		if known {
			a.pos = span.End
		} else {
			a.pos = -1
		}
	}
	return newSub(a.src, res, span, known), true
}

// mapAccess walks an object, scanning past each key so both key and value
// sub-deserializers carry document spans.
type mapAccess struct {
	src  string
	keys []gjson.Result
	vals []gjson.Result
	idx  int
	pos  int
}

func newMapAccess(d *Deserializer) *mapAccess {
	a := &mapAccess{src: d.src, pos: -1}
	d.res.ForEach(func(k, v gjson.Result) bool {
		a.keys = append(a.keys, k)
		a.vals = append(a.vals, v)
		return true
	})
	if d.spanKnown {
		a.pos = d.span.Start + 1 // just past "{"
	}
	return a
}

func (a *mapAccess) NextEntry() (key, val serde.Deserializer, ok bool) {
	if a.idx >= len(a.keys) {
		return nil, nil, false
	}
	kres, vres := a.keys[a.idx], a.vals[a.idx]
	a.idx++

	var kspan, vspan serde.Span
	kknown, vknown := false, false
	if a.pos >= 0 {
		kstart := skipSeparators(a.src, a.pos)
		kend, okScan := scanString(a.src, kstart)
		if okScan {
			kspan, kknown = serde.Span{Start: kstart, End: kend}, true
			vstart := skipColon(a.src, kend)
			vspan, vknown = valueSpan(a.src, vstart, vres)
		}
		if vknown {
			a.pos = vspan.End
		} else {
			a.pos = -1
		}
	}
	return newSub(a.src, kres, kspan, kknown), newSub(a.src, vres, vspan, vknown), true
}

type contextAccess struct {
	span    serde.Span
	text    string
	expired bool
}

func (a *contextAccess) expire() {
	a.expired = true
}

func (a *contextAccess) Span() (serde.Span, error) {
	if a.expired {
		return serde.Span{}, serde.NewExpiredError("json")
	}
	return a.span, nil
}

func (a *contextAccess) Inner() (serde.Deserializer, error) {
	if a.expired {
		return nil, serde.NewExpiredError("json")
	}
	return NewDeserializer([]byte(a.text)), nil
}

// valueSpan computes the span of the value res starting at start. Container
// spans come from the raw token after verifying the document bytes agree;
// scalar ends are rescanned so a span never runs past the token.
func valueSpan(src string, start int, res gjson.Result) (serde.Span, bool) {
	if start < 0 || start >= len(src) {
		return serde.Span{}, false
	}
	switch res.Type {
	case gjson.JSON:
		end := start + len(res.Raw)
		if end > len(src) || src[start:end] != res.Raw {
			return serde.Span{}, false
		}
		return serde.Span{Start: start, End: end}, true
	case gjson.String:
		end, ok := scanString(src, start)
		if !ok {
			return serde.Span{}, false
		}
		return serde.Span{Start: start, End: end}, true
	default:
		end := scanScalar(src, start)
		if end <= start {
			return serde.Span{}, false
		}
		return serde.Span{Start: start, End: end}, true
	}
}

// scanString returns the offset just past a quoted string starting at
// start.
func scanString(src string, start int) (int, bool) {
	if start >= len(src) || src[start] != '"' {
		return 0, false
	}
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '"':
			return i + 1, true
		}
	}
	return 0, false
}

// scanScalar returns the offset just past an unquoted scalar token.
func scanScalar(src string, start int) int {
	end := start
	for end < len(src) && !isJSONDelim(src[end]) {
		end++
	}
	return end
}

// skipSeparators advances past whitespace and element commas.
func skipSeparators(src string, pos int) int {
	for pos < len(src) && (isJSONSpace(src[pos]) || src[pos] == ',') {
		pos++
	}
	return pos
}

// skipColon advances past the key/value separator.
func skipColon(src string, pos int) int {
	for pos < len(src) && (isJSONSpace(src[pos]) || src[pos] == ':') {
		pos++
	}
	return pos
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isJSONDelim(c byte) bool {
	return isJSONSpace(c) || c == ',' || c == ']' || c == '}'
}
