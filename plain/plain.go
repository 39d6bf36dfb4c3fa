// Package plain deserializes whitespace-trimmed text.
//
// The adapter reports its entire input, less surrounding space, as a single
// string. It is the reference context-aware adapter: a context request is
// answered with the span of the retained text in the original input plus an
// inner deserializer over exactly that text. Nested context requests are
// served by the inner adapter, so spans compose one level at a time, each
// relative to its own adapter's input.
package plain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ozars/serde"
)

// ContentType identifies this adapter in the format registry.
const ContentType = "text/plain"

func init() {
	serde.RegisterFormat(ContentType, func(data []byte) serde.Deserializer {
		return NewDeserializer(string(data))
	})
}

// Option configures a Deserializer.
type Option func(*Deserializer)

// WithCutset trims the runes in set instead of Unicode whitespace.
// Inner deserializers handed out through context inherit the cutset.
func WithCutset(set string) Option {
	return func(d *Deserializer) {
		d.trim = func(r rune) bool { return strings.ContainsRune(set, r) }
	}
}

// Deserializer trims its input and reports the remainder as one string.
// It is single-use: DeserializeAny and DeserializeContext both consume it,
// and a second drive fails with serde.ErrConsumed.
type Deserializer struct {
	src      string
	trim     func(rune) bool
	opts     []Option
	consumed bool
}

// NewDeserializer returns an adapter over src.
func NewDeserializer(src string, opts ...Option) *Deserializer {
	d := &Deserializer{
		src:  src,
		trim: unicode.IsSpace,
		opts: opts,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DeserializeAny reports the trimmed text as a string.
func (d *Deserializer) DeserializeAny(v serde.Visitor) (any, error) {
	if err := d.consume(); err != nil {
		return nil, err
	}
	span, err := d.locate()
	if err != nil {
		return nil, err
	}
	return v.VisitString(span.Text(d.src))
}

// DeserializeContext reports the trimmed text through the context channel.
// The capability carries the span of the retained text and an inner adapter
// over exactly that text. It expires when the callback returns; the inner
// adapter, once obtained, does not.
func (d *Deserializer) DeserializeContext(v serde.Visitor) (any, error) {
	if err := d.consume(); err != nil {
		return nil, err
	}
	span, err := d.locate()
	if err != nil {
		return nil, err
	}
	acc := &contextAccess{
		span: span,
		text: span.Text(d.src),
		opts: d.opts,
	}
	defer acc.expire()
	return v.VisitContext(acc)
}

func (d *Deserializer) consume() error {
	if d.consumed {
		return serde.NewConsumedError("plain")
	}
	d.consumed = true
	return nil
}

// locate finds the byte range of the retained text. Offsets come from rune
// scans, so they always sit on code point boundaries.
func (d *Deserializer) locate() (serde.Span, error) {
	start := strings.IndexFunc(d.src, d.keep)
	if start < 0 {
		return serde.Span{}, serde.NewNoContentError("plain")
	}
	last := strings.LastIndexFunc(d.src, d.keep)
	_, size := utf8.DecodeRuneInString(d.src[last:])
	return serde.Span{Start: start, End: last + size}, nil
}

func (d *Deserializer) keep(r rune) bool {
	return !d.trim(r)
}

type contextAccess struct {
	span    serde.Span
	text    string
	opts    []Option
	expired bool
}

func (a *contextAccess) expire() {
	a.expired = true
}

func (a *contextAccess) Span() (serde.Span, error) {
	if a.expired {
		return serde.Span{}, serde.NewExpiredError("plain")
	}
	return a.span, nil
}

func (a *contextAccess) Inner() (serde.Deserializer, error) {
	if a.expired {
		return nil, serde.NewExpiredError("plain")
	}
	return NewDeserializer(a.text, a.opts...), nil
}
