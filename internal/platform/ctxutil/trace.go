package ctxutil

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type callerKey struct{}

// Caller identifies who issued an aggregate operation. Transports attach it so
// failure logs can be joined with request logs.
type Caller struct {
	RequestID string
	ActorID   uint
}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// LogFields returns logger key/value pairs for the caller and the active span.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	if c, ok := CallerFrom(ctx); ok {
		if c.RequestID != "" {
			kv = append(kv, "request_id", c.RequestID)
		}
		if c.ActorID != 0 {
			kv = append(kv, "actor_id", c.ActorID)
		}
	}
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			kv = append(kv, "trace_id", sc.TraceID().String())
		}
	}
	return kv
}
