// Package trace records what a unifile run is doing: one span for the run,
// one per file, and optional per-line points.
//
// Enable it from the command line:
//
//	unifile fix --trace=- --trace-level=file ./src
//
// # Tracers
//
//   - Nop: zero-cost tracer used when tracing is off
//   - StreamTracer: writes every event as it happens (stderr or a file)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope at or above it:
//
//   - LevelRun: ScopeRun (collect, resolve, write summary)
//   - LevelFile: ScopeRun and ScopeFile
//   - LevelDebug: everything, including ScopeLine
//
// LevelError only fills the ring buffer so it can be dumped on failure.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", trace.ParentID(ctx))
//	defer span.End("")
package trace
