// Package trace records what chartlint is doing while it analyzes a batch.
//
// Tracing is off by default. Enable it with
//
//	chartlint check --all --trace=- --trace-level=detail
//
// The driver opens one span per run, every file gets a file span and the
// analyzers (extract, overlap, fonts, render) open stage spans below it.
// Files analyzed in parallel are told apart by their lane, the position of
// the file in the batch. The level decides how deep the output goes:
//
//   - off: nothing
//   - error: only failures that the driver turns into diagnostics
//   - phase: driver and file spans
//   - detail: stage spans
//   - debug: everything
//
// The tracer travels through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeStage, "render")
//	defer span.End("")
package trace
