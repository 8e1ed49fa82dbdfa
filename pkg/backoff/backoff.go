package backoff

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Backoff is a capped exponential delay sequence. It is not safe for
// concurrent use.
type Backoff struct {
	base    time.Duration
	max     time.Duration
	attempt int
	clock   clockwork.Clock
}

// New creates a backoff starting at base and never exceeding max.
func New(base, max time.Duration) *Backoff {
	return NewWithClock(base, max, clockwork.NewRealClock())
}

// NewWithClock is New with an injectable clock.
func NewWithClock(base, max time.Duration, clock clockwork.Clock) *Backoff {
	if base <= 0 {
		base = time.Second
	}
	if max < base {
		max = base
	}
	return &Backoff{base: base, max: max, clock: clock}
}

// Next returns the delay for the current attempt and advances the sequence.
func (b *Backoff) Next() time.Duration {
	delay := b.base << uint(b.attempt)
	if delay > b.max || delay <= 0 {
		return b.max
	}
	b.attempt++
	return delay
}

// Reset restarts the sequence at the base delay.
func (b *Backoff) Reset() {
	b.attempt = 0
}

// Wait sleeps for Next() or until ctx is done.
func (b *Backoff) Wait(ctx context.Context) error {
	select {
	case <-b.clock.After(b.Next()):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Until calls probe until it succeeds, ctx is done, or attempts probes have
// failed (attempts <= 0 means unbounded). The last probe error is returned.
func (b *Backoff) Until(ctx context.Context, attempts int, probe func(context.Context) error) error {
	var err error
	for i := 0; attempts <= 0 || i < attempts; i++ {
		if err = probe(ctx); err == nil {
			b.Reset()
			return nil
		}
		if attempts > 0 && i == attempts-1 {
			break
		}
		if waitErr := b.Wait(ctx); waitErr != nil {
			return waitErr
		}
	}
	return err
}
