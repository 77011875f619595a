package emotion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock pins the gate's clock and records requested sleeps instead of
// actually sleeping.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	ctxErr error
}

func (f *fakeClock) install(g *IntervalGate) {
	g.now = func() time.Time { return f.now }
	g.sleep = func(ctx context.Context, d time.Duration) error {
		if f.ctxErr != nil {
			return f.ctxErr
		}
		f.slept = append(f.slept, d)
		return nil
	}
}

func TestIntervalGate_FirstCallPassesImmediately(t *testing.T) {
	g := NewIntervalGate(2 * time.Second)
	fc := &fakeClock{now: time.Unix(1000, 0)}
	fc.install(g)

	require.NoError(t, g.Wait(context.Background()))
	assert.Empty(t, fc.slept)
}

func TestIntervalGate_BackToBackCallsAreSpaced(t *testing.T) {
	const interval = 2 * time.Second
	g := NewIntervalGate(interval)
	fc := &fakeClock{now: time.Unix(1000, 0)}
	fc.install(g)

	ctx := context.Background()
	require.NoError(t, g.Wait(ctx))
	require.NoError(t, g.Wait(ctx))
	require.NoError(t, g.Wait(ctx))

	// Second and third callers each get a slot one full interval apart.
	require.Len(t, fc.slept, 2)
	assert.Equal(t, interval, fc.slept[0])
	assert.Equal(t, 2*interval, fc.slept[1])
}

func TestIntervalGate_IdleGateDoesNotDelay(t *testing.T) {
	g := NewIntervalGate(2 * time.Second)
	fc := &fakeClock{now: time.Unix(1000, 0)}
	fc.install(g)

	require.NoError(t, g.Wait(context.Background()))

	// After the interval has long passed, the next call is immediate.
	fc.now = fc.now.Add(time.Minute)
	require.NoError(t, g.Wait(context.Background()))
	assert.Empty(t, fc.slept)
}

func TestIntervalGate_CancelledContext(t *testing.T) {
	g := NewIntervalGate(2 * time.Second)
	fc := &fakeClock{now: time.Unix(1000, 0), ctxErr: context.Canceled}
	fc.install(g)

	require.NoError(t, g.Wait(context.Background()))
	assert.ErrorIs(t, g.Wait(context.Background()), context.Canceled)
}

func TestSleepCtx_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
}
