package render

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Guard serializes access to the plotting engine's current-figure state.
// Weight 1 means one render at a time.
type Guard struct {
	sem    *semaphore.Weighted
	weight int64
}

// NewGuard returns a guard admitting weight concurrent renders.
func NewGuard(weight int64) *Guard {
	if weight < 1 {
		weight = 1
	}
	return &Guard{sem: semaphore.NewWeighted(weight), weight: weight}
}

// defaultGuard is shared by sandboxes that do not bring their own.
var defaultGuard = NewGuard(1)

// Acquire blocks until a slot is free or ctx is done.
func (g *Guard) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release frees the slot taken by Acquire.
func (g *Guard) Release() {
	g.sem.Release(1)
}

// Weight returns the number of concurrent renders admitted.
func (g *Guard) Weight() int64 { return g.weight }

// With runs fn while holding the guard.
func (g *Guard) With(ctx context.Context, fn func() error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn()
}
