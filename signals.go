package serde

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for deserialization events.
var (
	SignalFormatRegistered = capitan.NewSignal("serde.format.registered", "Format factory registered")
	SignalDecodeStart      = capitan.NewSignal("serde.decode.start", "Decode operation beginning")
	SignalDecodeComplete   = capitan.NewSignal("serde.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitFormatRegistered emits an event when a format factory is registered.
func emitFormatRegistered(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalFormatRegistered,
		KeyContentType.Field(contentType),
	)
}

// emitDecodeStart emits an event when a decode begins.
func emitDecodeStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitDecodeComplete emits an event when a decode finishes.
func emitDecodeComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
