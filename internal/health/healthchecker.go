package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Checker periodically probes a HealthPinger and caches the result. It starts
// unhealthy until the first successful probe.
type Checker struct {
	name         string
	pinger       HealthPinger
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewChecker creates a checker for the given component.
func NewChecker(name string, pinger HealthPinger, log zerolog.Logger, probeTimeout time.Duration) *Checker {
	c := &Checker{name: name, pinger: pinger, log: log, probeTimeout: probeTimeout}
	c.healthy.Store(0)
	return c
}

// Name returns the checker name.
func (c *Checker) Name() string { return c.name }

// IsHealthy returns the cached health status (non-blocking).
func (c *Checker) IsHealthy() bool { return c.healthy.Load() == 1 }

// Start begins periodic health checking and blocks until ctx is cancelled.
func (c *Checker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := c.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		probeCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if err := c.pinger.HealthPing(probeCtx); err != nil {
			if c.healthy.Swap(0) == 1 {
				c.log.Error().Stack().Str("checker", c.name).Err(err).Msg("health check failed")
			}
			return
		}
		if c.healthy.Swap(1) == 0 {
			c.log.Info().Str("checker", c.name).Msg("health check passing")
		}
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
