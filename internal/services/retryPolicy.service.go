package services

import (
	"context"
	"math/rand/v2"
	"time"

	"annualreports/config"
	"annualreports/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the production Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy decides how long to wait around archive requests. There is a
// single recovery path: a rate-limited response triggers one fixed cooldown
// and the sweep moves on without retrying the target.
type RetryPolicy struct {
	ThrottleMin time.Duration
	ThrottleMax time.Duration
	Cooldown    time.Duration

	sleep  Sleeper
	jitter func() float64
	log    logger.Logger
}

func NewRetryPolicy(cfg config.Config) *RetryPolicy {
	return &RetryPolicy{
		ThrottleMin: cfg.ThrottleMin(),
		ThrottleMax: cfg.ThrottleMax(),
		Cooldown:    cfg.RateLimitCooldown(),
		sleep:       ContextSleep,
		jitter:      rand.Float64,
		log:         logger.New("retryPolicy"),
	}
}

// WithSleeper swaps the clock, mainly for tests.
func (p *RetryPolicy) WithSleeper(sleep Sleeper) *RetryPolicy {
	p.sleep = sleep
	return p
}

// WithJitter swaps the random source; fn must return values in [0, 1).
func (p *RetryPolicy) WithJitter(fn func() float64) *RetryPolicy {
	p.jitter = fn
	return p
}

// ThrottleDelay picks the pause before the next request, uniformly in
// [ThrottleMin, ThrottleMax].
func (p *RetryPolicy) ThrottleDelay() time.Duration {
	span := p.ThrottleMax - p.ThrottleMin
	if span <= 0 {
		return p.ThrottleMin
	}
	return p.ThrottleMin + time.Duration(p.jitter()*float64(span))
}

// Throttle sleeps for a fresh ThrottleDelay and returns how long it waited.
func (p *RetryPolicy) Throttle(ctx context.Context) (time.Duration, error) {
	delay := p.ThrottleDelay()
	p.log.Function("Throttle").Debug("Throttling before request", "delay", delay)
	return delay, p.sleep(ctx, delay)
}

// AfterResult applies the cooldown for rate-limited attempts and is a no-op
// for every other outcome.
func (p *RetryPolicy) AfterResult(ctx context.Context, outcome models.AttemptOutcome) error {
	if outcome != models.AttemptOutcomeRateLimited {
		return nil
	}

	p.log.Function("AfterResult").Warn("Rate limited by archive, cooling down", "cooldown", p.Cooldown)
	return p.sleep(ctx, p.Cooldown)
}
