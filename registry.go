package serde

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"
)

// Factory builds a deserializer positioned over an encoded document.
type Factory func(data []byte) Deserializer

var (
	formats   = make(map[string]Factory)
	formatsMu sync.RWMutex
)

// RegisterFormat makes a factory available to Decode under the given
// content type. The adapters in this module self-register from init, so a
// blank import of the adapter package is enough:
//
//	import _ "github.com/ozars/serde/json"
//
// Registering a content type again replaces the previous factory.
func RegisterFormat(contentType string, f Factory) {
	formatsMu.Lock()
	formats[contentType] = f
	formatsMu.Unlock()

	emitFormatRegistered(context.Background(), contentType)
}

// Formats returns the registered content types in sorted order.
func Formats() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()

	out := make([]string, 0, len(formats))
	for ct := range formats {
		out = append(out, ct)
	}
	sort.Strings(out)
	return out
}

// NewDeserializer builds a deserializer for data using the factory
// registered under contentType.
func NewDeserializer(contentType string, data []byte) (Deserializer, error) {
	formatsMu.RLock()
	f, ok := formats[contentType]
	formatsMu.RUnlock()

	if !ok {
		return nil, newFormatError(contentType)
	}
	return f(data), nil
}

// Decode resolves contentType against the registry and deserializes data
// into a T. ctx flows to the decode signals only; decoding itself does not
// block.
func Decode[T any](ctx context.Context, contentType string, data []byte) (T, error) {
	typeName := reflect.TypeFor[T]().String()

	start := time.Now()
	emitDecodeStart(ctx, contentType, typeName)

	var retErr error
	defer func() {
		emitDecodeComplete(ctx, contentType, typeName, len(data), time.Since(start), retErr)
	}()

	var out T
	d, err := NewDeserializer(contentType, data)
	if err != nil {
		retErr = err
		return out, retErr
	}

	out, err = Deserialize[T](d)
	if err != nil {
		retErr = err
		return out, retErr
	}
	return out, nil
}
