package trace

import "context"

// frame is what a context carries: the tracer, the innermost open span and
// the lane of the file being analyzed.
type frame struct {
	tracer Tracer
	span   uint64
	lane   int
}

type frameKey struct{}

func frameOf(ctx context.Context) frame {
	if ctx != nil {
		if f, ok := ctx.Value(frameKey{}).(frame); ok {
			return f
		}
	}
	return frame{tracer: Nop}
}

func withFrame(ctx context.Context, f frame) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, frameKey{}, f)
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return frameOf(ctx).tracer
}

// WithTracer attaches t to ctx. Spans started from the result are roots.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return withFrame(ctx, frame{tracer: t})
}

// WithLane marks ctx as belonging to the file at batch position lane (1-based).
func WithLane(ctx context.Context, lane int) context.Context {
	f := frameOf(ctx)
	f.lane = lane
	return withFrame(ctx, f)
}
