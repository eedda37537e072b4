package trace

import "errors"

// MultiTracer fans out trace events to multiple tracers.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer creates a new MultiTracer that emits to all provided tracers.
// Its level is the most verbose level among them.
func NewMultiTracer(tracers ...Tracer) *MultiTracer {
	m := &MultiTracer{}
	for _, t := range tracers {
		if t == nil || !t.Enabled() {
			continue
		}
		m.tracers = append(m.tracers, t)
		if t.Level() > m.level {
			m.level = t.Level()
		}
	}
	return m
}

// Emit sends a copy of the event to every underlying tracer, since stream
// tracers stamp the sequence number in place.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

// Flush flushes all underlying tracers.
func (t *MultiTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

// Close closes all underlying tracers.
func (t *MultiTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }
