// Package lit deserializes a single scalar literal.
//
// The input holds one literal surrounded by optional whitespace: null,
// true or false (any case), an integer or float with optional leading
// minus, or a string in single or double quotes. Escapes inside quoted
// strings are limited to the quote character and a doubled backslash; any
// other backslash pair is kept verbatim.
//
// The adapter is context-aware. A context request answers with the span of
// the literal token, quotes included, and an inner adapter over exactly
// that token text.
package lit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/viant/parsly"

	"github.com/ozars/serde"
)

// ContentType identifies this adapter in the format registry.
const ContentType = "text/x-literal"

func init() {
	serde.RegisterFormat(ContentType, func(data []byte) serde.Deserializer {
		return NewDeserializer(string(data))
	})
}

// Deserializer lexes one literal out of its input. It is single-use:
// DeserializeAny and DeserializeContext both consume it.
type Deserializer struct {
	src      string
	consumed bool
}

// NewDeserializer returns an adapter over src.
func NewDeserializer(src string) *Deserializer {
	return &Deserializer{src: src}
}

// DeserializeAny reports the literal through the callback matching its
// lexical class: VisitNil for null, VisitBool for booleans, VisitInt,
// VisitUint, or VisitFloat for numbers, and VisitString for quoted text.
func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	if err := d.consume(); err != nil {
		return nil, err
	}
	tok, err := d.lex()
	if err != nil {
		return nil, err
	}
	return dispatch(tok, v)
}

// DeserializeContext reports the literal through the context channel. The
// capability carries the token's span and an inner adapter over the raw
// token text; it expires when the callback returns.
func (d *Deserializer) DeserializeContext(v serde.Visitor) (any, error) {
	if err := d.consume(); err != nil {
		return nil, err
	}
	tok, err := d.lex()
	if err != nil {
		return nil, err
	}
	acc := &contextAccess{span: tok.span, text: tok.text}
	defer acc.expire()
	return v.VisitContext(acc)
}

func (d *Deserializer) consume() error {
	if d.consumed {
		return serde.NewConsumedError("lit")
	}
	d.consumed = true
	return nil
}

// token is one matched literal with its position in the source.
type token struct {
	code int
	text string
	span serde.Span
}

func (d *Deserializer) lex() (token, error) {
	cursor := parsly.NewCursor("", []byte(d.src), 0)
	candidates := []*parsly.Token{
		nullMatcher, boolMatcher, numberMatcher, minusMatcher,
		singleQuotedMatcher, doubleQuotedMatcher,
	}

	matched := cursor.MatchAfterOptional(whitespaceMatcher, candidates...)
	switch matched.Code {
	case parsly.EOF:
		return token{}, serde.NewNoContentError("lit")
	case parsly.Invalid:
		return token{}, serde.NewSyntaxError("lit", cursor.NewError(candidates...))
	}

	text := matched.Text(cursor)
	code := matched.Code
	start := cursor.Pos - len(text)

	if code == minusToken {
		// A bare sign: the digits must follow immediately.
		num := cursor.MatchOne(numberMatcher)
		if num.Code != numberToken {
			return token{}, serde.NewSyntaxError("lit", cursor.NewError(numberMatcher))
		}
		text += num.Text(cursor)
		code = numberToken
	}

	span := serde.Span{Start: start, End: cursor.Pos}

	if idx := strings.IndexFunc(d.src[cursor.Pos:], isContent); idx >= 0 {
		return token{}, serde.NewSyntaxError("lit",
			fmt.Errorf("unexpected content after literal at offset %d", cursor.Pos+idx))
	}

	return token{code: code, text: text, span: span}, nil
}

func isContent(r rune) bool {
	return !unicode.IsSpace(r)
}

func dispatch(tok token, v serde.Visitor) (any, error) {
	switch tok.code {
	case nullToken:
		return v.VisitNil()

	case boolToken:
		return v.VisitBool(strings.EqualFold(tok.text, "true"))

	case numberToken:
		if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return v.VisitInt(i)
		}
		if u, err := strconv.ParseUint(tok.text, 10, 64); err == nil {
			return v.VisitUint(u)
		}
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, serde.NewSyntaxError("lit", err)
		}
		return v.VisitFloat(f)

	case singleQuotedToken:
		return v.VisitString(unescape(tok.text[1:len(tok.text)-1], '\''))

	case doubleQuotedToken:
		return v.VisitString(unescape(tok.text[1:len(tok.text)-1], '"'))
	}
	return nil, serde.NewSyntaxError("lit", fmt.Errorf("unhandled token code %d", tok.code))
}

// unescape resolves the quote character and doubled backslash escapes.
func unescape(body string, quote byte) string {
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			if next := body[i+1]; next == quote || next == '\\' {
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
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
		return serde.Span{}, serde.NewExpiredError("lit")
	}
	return a.span, nil
}

func (a *contextAccess) Inner() (serde.Deserializer, error) {
	if a.expired {
		return nil, serde.NewExpiredError("lit")
	}
	return NewDeserializer(a.text), nil
}
