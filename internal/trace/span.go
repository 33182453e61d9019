package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq   atomic.Uint64
	spans atomic.Uint64
)

// Span is an open begin/end pair. A span filtered out by the level is inert:
// its methods do nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	lane    int
	scope   Scope
	name    string
	started time.Time
	attrs   map[string]string
}

// Start opens a span under the innermost span of ctx and returns a context
// in which it is the innermost span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	f := frameOf(ctx)
	s := &Span{tracer: f.tracer, parent: f.span, lane: f.lane, scope: scope, name: name}
	if !f.tracer.Level().Admits(&Event{Kind: KindBegin, Scope: scope}) {
		s.tracer = nil
		return ctx, s
	}
	s.id = spans.Add(1)
	s.started = time.Now()
	s.emit(KindBegin, "", nil)

	f.span = s.id
	return withFrame(ctx, f), s
}

// Set attaches key=value to the end event.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.attrs == nil {
		s.attrs = make(map[string]string, 2)
	}
	s.attrs[key] = value
	return s
}

// End closes the span and returns how long it was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	s.emit(KindEnd, detail, s.attrs)
	d := time.Since(s.started)
	s.tracer = nil
	return d
}

// ID is 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) emit(kind Kind, detail string, attrs map[string]string) {
	s.tracer.Emit(&Event{
		Time:   time.Now(),
		Seq:    seq.Add(1),
		Kind:   kind,
		Scope:  s.scope,
		Span:   s.id,
		Parent: s.parent,
		Lane:   s.lane,
		Name:   s.name,
		Detail: detail,
		Attrs:  attrs,
	})
}

// Point emits an instant event. At LevelError only points get through, so
// the driver uses them for failures it downgrades to diagnostics.
func Point(ctx context.Context, scope Scope, name, detail string) {
	f := frameOf(ctx)
	ev := &Event{Kind: KindPoint, Scope: scope}
	if !f.tracer.Level().Admits(ev) {
		return
	}
	ev.Time = time.Now()
	ev.Seq = seq.Add(1)
	ev.Parent = f.span
	ev.Lane = f.lane
	ev.Name = name
	ev.Detail = detail
	f.tracer.Emit(ev)
}
