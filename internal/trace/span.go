package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64    { return seqCounter.Add(1) }
func nextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an open begin/end pair. A Span whose scope is filtered out by the
// tracer level is inert: every method is a no-op.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	started  time.Time
	fields   []Field
}

// Begin starts a span under parent (0 for a root span) and emits its begin
// event with the given fields.
func Begin(t Tracer, scope Scope, name string, parent uint64, fields ...Field) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}

	s := &Span{
		tracer:   t,
		id:       nextSpanID(),
		parentID: parent,
		scope:    scope,
		name:     name,
		started:  time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
		Fields:   fields,
	})
	return s
}

// With attaches fields to the end event.
func (s *Span) With(fields ...Field) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	s.fields = append(s.fields, fields...)
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Detail:   detail,
		Fields:   s.fields,
	})
	return dur
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// StartSpan begins a span under the one carried by ctx and returns a context
// carrying the new span.
func StartSpan(ctx context.Context, scope Scope, name string, fields ...Field) (context.Context, *Span) {
	span := Begin(FromContext(ctx), scope, name, ParentID(ctx), fields...)
	if span.id == 0 {
		return ctx, span
	}
	return withSpanID(ctx, span.id), span
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string, fields ...Field) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
		Fields: fields,
	})
}

// Error emits an error point. Error points are recorded at every level except
// LevelOff.
func Error(t Tracer, scope Scope, name string, err error) {
	if t == nil || !t.Enabled() || err == nil {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: err.Error(),
		Error:  true,
	})
}
