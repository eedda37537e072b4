// Package trace is the structured run log of vipyrdocs.
//
// Events are spans (begin/end pairs) and points, tagged with a scope. The
// level decides which scopes reach the output:
//
//   - LevelOff: nothing
//   - LevelError: only error points
//   - LevelPhase: driver and pass boundaries (discover, load, check, cache)
//   - LevelDetail: per-file events as well
//   - LevelDebug: everything, including per-definition events
//
// Usage:
//
//	vipyrdocs check --trace=- --trace-level=detail src/
//
// The tracer travels through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "check", 0)
//	defer span.End("")
package trace
