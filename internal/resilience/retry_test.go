package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoVal_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", NewTransientError(eris.New("flaky"))
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)
}

func TestDoVal_NonTransientFailsImmediately(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (string, error) {
		calls++
		return "", eris.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVal_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), fastConfig(), func(_ context.Context) (int, error) {
		calls++
		return 0, NewTransientError(eris.New("still down"))
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoVal_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoVal(ctx, fastConfig(), func(_ context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewTransientError(eris.New("down"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(eris.New("validation failed")))
	assert.True(t, IsTransient(NewTransientError(eris.New("x"))))
	assert.True(t, IsTransient(eris.New("read tcp: connection reset by peer")))
	assert.True(t, IsTransient(eris.New("dial tcp: i/o timeout")))
}

func TestBackoff_RespectsCap(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     300 * time.Millisecond,
		Multiplier:     10,
	}
	assert.LessOrEqual(t, Backoff(5, cfg), 300*time.Millisecond)
}
