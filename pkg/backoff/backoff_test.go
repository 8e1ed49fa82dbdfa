package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDoublesUntilCap(t *testing.T) {
	b := New(100*time.Millisecond, time.Second)

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, b.Next(), "attempt %d", i)
	}

	b.Reset()
	assert.Equal(t, 100*time.Millisecond, b.Next())
}

func TestNewNormalizesArguments(t *testing.T) {
	b := New(0, 0)
	assert.Equal(t, time.Second, b.Next())
	assert.Equal(t, time.Second, b.Next())
}

func TestUntilSucceedsAfterRetries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewWithClock(time.Second, 4*time.Second, clock)

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- b.Until(context.Background(), 5, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 2; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(4 * time.Second)
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("Until did not return")
	}
	assert.Equal(t, 3, calls)
}

func TestUntilReturnsLastErrorWhenExhausted(t *testing.T) {
	b := New(time.Millisecond, time.Millisecond)
	wantErr := errors.New("down")

	err := b.Until(context.Background(), 3, func(context.Context) error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestUntilStopsOnContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewWithClock(time.Hour, time.Hour, clock)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Until(ctx, 0, func(context.Context) error { return errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}
