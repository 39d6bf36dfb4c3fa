package serde

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrContextUnsupported indicates a context request could not be
	// honored, either because the visitor does not handle context or
	// because the adapter cannot supply provenance. It is returned bare,
	// never wrapped, so callers see a stable message.
	ErrContextUnsupported = errors.New("contextful values are not supported")

	// ErrNoContent indicates the input held no decodable value.
	ErrNoContent = errors.New("no content found")

	// ErrInvalidType indicates a visitor received a shape it does not accept.
	ErrInvalidType = errors.New("invalid type")

	// ErrOutOfRange indicates a numeric value does not fit the target type.
	ErrOutOfRange = errors.New("value out of range")

	// ErrConsumed indicates a single-use deserializer was driven twice.
	ErrConsumed = errors.New("input already consumed")

	// ErrExpiredContext indicates a ContextAccess was used after its
	// originating callback returned.
	ErrExpiredContext = errors.New("context access expired")

	// ErrUnknownFormat indicates no factory is registered for a content type.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrUnsupportedTarget indicates Deserialize cannot fill the target type.
	ErrUnsupportedTarget = errors.New("unsupported target")

	// ErrSyntax indicates the input could not be parsed at all.
	ErrSyntax = errors.New("malformed input")
)

// TypeError reports a shape mismatch between what an adapter found and what
// the visitor accepts. Got names the rejected shape, usually with the value
// rendered after it; Expected is the visitor's Expecting text.
type TypeError struct {
	Err      error  // Underlying sentinel error (ErrInvalidType)
	Got      string // Shape and value that were rejected
	Expected string // What the visitor accepts
}

func (e *TypeError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: %s, expected %s", e.Err.Error(), e.Got, e.Expected)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Got)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// RangeError reports a numeric value that was the right shape but does not
// fit the requested Go type.
type RangeError struct {
	Err    error  // Underlying sentinel error (ErrOutOfRange)
	Value  string // Rendered source value
	Target string // Go type that could not hold it
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s does not fit %s", e.Err.Error(), e.Value, e.Target)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

// ContentError reports adapter input problems: empty input, reuse of a
// consumed adapter, or use of an expired context capability. Format names
// the adapter that raised it.
type ContentError struct {
	Err    error  // Underlying sentinel error (ErrNoContent, ErrConsumed, ErrExpiredContext)
	Format string // Adapter name ("plain", "json", ...)
}

func (e *ContentError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Format)
	}
	return e.Err.Error()
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// SyntaxError reports input the adapter could not parse.
type SyntaxError struct {
	Err    error  // Underlying sentinel error (ErrSyntax)
	Format string // Adapter name
	Cause  error  // Original parser error, if any
}

func (e *SyntaxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.Format, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.Format)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// FormatError reports a content type with no registered factory.
type FormatError struct {
	Err         error  // Underlying sentinel error (ErrUnknownFormat)
	ContentType string // Content type that was requested
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %q", e.Err.Error(), e.ContentType)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// TargetError reports a Go type Deserialize cannot fill.
type TargetError struct {
	Err    error  // Underlying sentinel error (ErrUnsupportedTarget)
	Type   string // Go type of the target
	Reason string // Why it cannot be filled
}

func (e *TargetError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s %s: %s", e.Err.Error(), e.Type, e.Reason)
	}
	return fmt.Sprintf("%s %s", e.Err.Error(), e.Type)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}

// NewTypeError creates a TypeError for a rejected shape.
func NewTypeError(got, expected string) error {
	return &TypeError{
		Err:      ErrInvalidType,
		Got:      got,
		Expected: expected,
	}
}

// NewRangeError creates a RangeError for a value that does not fit target.
func NewRangeError(value, target string) error {
	return &RangeError{
		Err:    ErrOutOfRange,
		Value:  value,
		Target: target,
	}
}

// NewNoContentError creates a ContentError for input without a value.
func NewNoContentError(format string) error {
	return &ContentError{
		Err:    ErrNoContent,
		Format: format,
	}
}

// NewConsumedError creates a ContentError for a reused adapter.
func NewConsumedError(format string) error {
	return &ContentError{
		Err:    ErrConsumed,
		Format: format,
	}
}

// NewExpiredError creates a ContentError for a stale context capability.
func NewExpiredError(format string) error {
	return &ContentError{
		Err:    ErrExpiredContext,
		Format: format,
	}
}

// NewSyntaxError creates a SyntaxError for unparseable input.
func NewSyntaxError(format string, cause error) error {
	return &SyntaxError{
		Err:    ErrSyntax,
		Format: format,
		Cause:  cause,
	}
}

// newFormatError creates a FormatError for an unregistered content type.
func newFormatError(contentType string) error {
	return &FormatError{
		Err:         ErrUnknownFormat,
		ContentType: contentType,
	}
}

// newTargetError creates a TargetError for an unfillable target type.
func newTargetError(typ, reason string) error {
	return &TargetError{
		Err:    ErrUnsupportedTarget,
		Type:   typ,
		Reason: reason,
	}
}
