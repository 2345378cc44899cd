package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialDelay:    time.Millisecond,
		MaxDelay:        5 * time.Millisecond,
		BackoffFactor:   2.0,
		MaxTotalTimeout: time.Second,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	sentinel := errors.New("still failing")
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	sentinel := errors.New("bad request")
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return &Permanent{Err: sentinel}
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(), func() error {
		return errors.New("never settles")
	})
	assert.Error(t, err)
}
