// Package trace records what the toolchain is doing: which files are being
// loaded, lexed, parsed and run, and how long each stage takes.
//
// # Usage
//
//	bfi run --trace=- --trace-level=phase prog.bf
//	bfi check --trace=out.ndjson --trace-level=detail a.bf b.bf
//
// # Architecture
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when a run fails
//   - both: a stream and a ring fed from the same events
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only the ring dump after a failure
//   - LevelPhase: Driver and stage boundaries
//   - LevelDetail: Per-file events
//   - LevelDebug: Everything, including loop entries in the machine
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	ctx = trace.WithFile(ctx, "prog.bf")
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "parse")
//	defer span.End("")
package trace
