package trace

import "context"

type ctxKey uint8

const (
	tracerKey ctxKey = iota
	spanKey
)

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx; a nil tracer becomes Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// ParentID returns the ID of the innermost span started with StartSpan on
// ctx, 0 when there is none.
func ParentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey).(uint64)
	return id
}

func withSpanID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, spanKey, id)
}
