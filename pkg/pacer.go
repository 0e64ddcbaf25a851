// Package pkg provides utilities for allylab.
package pkg

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pacer enforces a minimum interval between successive operations. It is
// used to space out calls against rate-limited APIs; the gap is a policy,
// not a performance knob.
type Pacer interface {
	// Wait blocks until at least the configured interval has passed since
	// the previous successful Wait, or until the context is done.
	Wait(ctx context.Context) error
	// Interval returns the configured minimum gap.
	Interval() time.Duration
}

type pacerImpl struct {
	interval time.Duration
	mu       sync.Mutex
	last     time.Time

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer constructs a Pacer with the given minimum interval. The first
// Wait never blocks.
func NewPacer(interval time.Duration) Pacer {
	return &pacerImpl{
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// NewPacerWithClock constructs a Pacer with injectable time functions.
func NewPacerWithClock(interval time.Duration, now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Pacer {
	return &pacerImpl{
		interval: interval,
		now:      now,
		sleep:    sleep,
	}
}

// Wait implements Pacer.
func (p *pacerImpl) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if !p.last.IsZero() {
		elapsed := p.now().Sub(p.last)
		if remaining := p.interval - elapsed; remaining > 0 {
			slog.Debug("pacing before next request", "remaining", remaining)

			if err := p.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}

	p.last = p.now()

	return nil
}

// Interval implements Pacer.
func (p *pacerImpl) Interval() time.Duration {
	return p.interval
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
