// Package shared holds the request-scoped plumbing used by both handlers
// and middleware: context keys, response writers, and the terminal error
// normalizer.
package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// ContextKey is the type for context values set by the pipeline.
type ContextKey string

// Context keys for request-scoped values.
const (
	// UserContextKey carries the authenticated claim set.
	UserContextKey ContextKey = "user"

	// BodyContextKey carries the validated, normalized request body.
	BodyContextKey ContextKey = "body"

	// GratitudeIDContextKey carries the validated path id parameter.
	GratitudeIDContextKey ContextKey = "gratitudeID"

	// ListFilterContextKey carries the validated list query filter.
	ListFilterContextKey ContextKey = "listFilter"

	// TraceIDKey carries the per-request trace ID.
	TraceIDKey ContextKey = "traceID"
)

// traceIDLength is the number of random bytes in a trace ID.
const traceIDLength = 16

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" if absent.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// generateTraceID returns a 32-character hex trace ID. If crypto/rand
// fails it falls back to a time-derived value rather than a static one.
func generateTraceID() string {
	b := make([]byte, traceIDLength)
	if n, err := rand.Read(b); err != nil || n != traceIDLength {
		binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
		binary.BigEndian.PutUint64(b[8:], uint64(time.Now().Unix()))
	}
	return hex.EncodeToString(b)
}
