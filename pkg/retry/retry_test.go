package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func classify(err error) Action {
	if errors.Is(err, errFatal) {
		return Stop
	}
	return Retry
}

func quickPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestDoSucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	var retried []int
	p := quickPolicy(5)
	p.OnRetry = func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }

	got, err := Do(context.Background(), p, classify, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := DoVoid(context.Background(), quickPolicy(5), classify, func(context.Context) error {
		calls++
		return errFatal
	})

	assert.Equal(t, 1, calls)
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, errFatal)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := DoVoid(context.Background(), quickPolicy(3), classify, func(context.Context) error {
		calls++
		return errTransient
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errTransient)
	assert.False(t, IsPermanent(err))
}

func TestDoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{MaxAttempts: 3, InitialBackoff: time.Hour}
	err := DoVoid(ctx, p, classify, func(context.Context) error { return errTransient })
	assert.ErrorIs(t, err, context.Canceled)
}
