package services

import (
	"context"
	"testing"
	"time"

	"annualreports/config"
	"annualreports/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper captures requested sleeps without blocking.
type recordingSleeper struct {
	calls []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return ctx.Err()
}

func TestNewRetryPolicy_FromConfig(t *testing.T) {
	policy := NewRetryPolicy(config.Default())

	assert.Equal(t, 10*time.Second, policy.ThrottleMin)
	assert.Equal(t, 15*time.Second, policy.ThrottleMax)
	assert.Equal(t, 60*time.Second, policy.Cooldown)
}

func TestRetryPolicy_ThrottleDelayBounds(t *testing.T) {
	policy := NewRetryPolicy(config.Default())

	tests := []struct {
		name   string
		jitter float64
		want   time.Duration
	}{
		{"lower bound", 0, 10 * time.Second},
		{"midpoint", 0.5, 12500 * time.Millisecond},
		{"near upper bound", 0.999, 10*time.Second + time.Duration(0.999*float64(5*time.Second))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy.WithJitter(func() float64 { return tt.jitter })
			assert.Equal(t, tt.want, policy.ThrottleDelay())
		})
	}
}

func TestRetryPolicy_ThrottleDelayRandomStaysInRange(t *testing.T) {
	policy := NewRetryPolicy(config.Default())

	for range 200 {
		delay := policy.ThrottleDelay()
		assert.GreaterOrEqual(t, delay, 10*time.Second)
		assert.LessOrEqual(t, delay, 15*time.Second)
	}
}

func TestRetryPolicy_ThrottleDelayCollapsedRange(t *testing.T) {
	cfg := config.Default()
	cfg.ThrottleMinSec, cfg.ThrottleMaxSec = 3, 3
	policy := NewRetryPolicy(cfg)

	assert.Equal(t, 3*time.Second, policy.ThrottleDelay())
}

func TestRetryPolicy_Throttle(t *testing.T) {
	sleeper := &recordingSleeper{}
	policy := NewRetryPolicy(config.Default()).
		WithSleeper(sleeper.Sleep).
		WithJitter(func() float64 { return 0.2 })

	delay, err := policy.Throttle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 11*time.Second, delay)
	assert.Equal(t, []time.Duration{11 * time.Second}, sleeper.calls)
}

func TestRetryPolicy_AfterResult(t *testing.T) {
	for _, outcome := range models.AttemptOutcomes {
		t.Run(string(outcome), func(t *testing.T) {
			sleeper := &recordingSleeper{}
			policy := NewRetryPolicy(config.Default()).WithSleeper(sleeper.Sleep)

			require.NoError(t, policy.AfterResult(context.Background(), outcome))

			if outcome == models.AttemptOutcomeRateLimited {
				assert.Equal(t, []time.Duration{60 * time.Second}, sleeper.calls)
			} else {
				assert.Empty(t, sleeper.calls)
			}
		})
	}
}

func TestContextSleep(t *testing.T) {
	t.Run("returns after duration", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, ContextSleep(context.Background(), 10*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("returns early on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := ContextSleep(ctx, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero duration checks context only", func(t *testing.T) {
		assert.NoError(t, ContextSleep(context.Background(), 0))
	})
}
