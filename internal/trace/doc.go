// Package trace is the structured event log of mend.
//
// Enable it from the command line:
//
//	mend repair --trace=- --trace-level=detail ./pkg
//
// Implementations:
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr (text or NDJSON)
//   - RingTracer: circular buffer dumped when the process panics
//   - MultiTracer: fan-out to several tracers
//
// Levels select scopes: phase shows driver and session boundaries, detail
// adds iterations, debug adds every fixer call. Error events are kept at all
// levels except off.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeSession, "session", 0)
//	defer span.End("")
package trace
