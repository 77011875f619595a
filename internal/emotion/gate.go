package emotion

import (
	"context"
	"sync"
	"time"
)

// IntervalGate enforces a minimum delay between outbound classifier calls.
// It is shared process-wide by design: concurrent callers are each assigned
// the next free slot, so overall outbound-call order is whatever order the
// gate hands out slots in, not arrival order.
//
// The clock and sleep functions are injectable so tests can run without
// real delays.
type IntervalGate struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewIntervalGate returns a gate with the given minimum interval.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	return &IntervalGate{
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until the caller's slot opens, or returns the context error if
// the caller gives up first. The shared timestamp is advanced for every call,
// whether or not the caller ends up completing its request.
func (g *IntervalGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	now := g.now()
	slot := g.next
	if slot.Before(now) {
		slot = now
	}
	g.next = slot.Add(g.interval)
	g.mu.Unlock()

	if d := slot.Sub(now); d > 0 {
		return g.sleep(ctx, d)
	}
	return ctx.Err()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
