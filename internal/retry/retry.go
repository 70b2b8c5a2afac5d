// Package retry wraps fallible operations with bounded retries and
// exponential backoff. The policy is provider-agnostic: it performs no I/O
// of its own beyond delegating to the wrapped operation and sleeping.
package retry

import (
	"context"
	"log/slog"
	"time"

	retrygo "github.com/avast/retry-go/v4"

	"github.com/studyforge/distill/internal/providers"
)

const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = time.Second

	// maxDelay caps exponential growth so long retry chains do not stall
	// a run for minutes.
	maxDelay = 30 * time.Second
)

// Policy executes an operation up to MaxRetries+1 times, sleeping
// InitialDelay × 2^k after failed attempt k. Errors classified as fatal
// by providers.IsRetryable abort immediately without consuming budget.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	Logger       *slog.Logger

	// onDelay observes computed backoff delays; when it returns true the
	// sleep is skipped. Tests use it to verify the backoff formula without
	// waiting.
	onDelay func(attempt uint, delay time.Duration) bool
}

// NewPolicy creates a policy with defaults applied.
func NewPolicy(maxRetries int, initialDelay time.Duration) *Policy {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	if initialDelay < 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Policy{
		MaxRetries:   maxRetries,
		InitialDelay: initialDelay,
	}
}

// Do executes op under the policy and returns its result, or the last
// error once all attempts are exhausted.
func Do[T any](ctx context.Context, p *Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var result T

	err := retrygo.Do(
		func() error {
			r, err := op(ctx)
			if err != nil {
				return err
			}
			result = r
			return nil
		},
		retrygo.Context(ctx),
		retrygo.Attempts(uint(p.MaxRetries)+1),
		retrygo.RetryIf(providers.IsRetryable),
		retrygo.LastErrorOnly(true),
		retrygo.DelayType(p.delayType),
		retrygo.OnRetry(func(attempt uint, err error) {
			if p.Logger != nil {
				p.Logger.Warn("retrying after error",
					"attempt", attempt+1,
					"max_attempts", p.MaxRetries+1,
					"error", err)
			}
		}),
	)

	return result, err
}

// delayType computes InitialDelay × 2^attempt, capped at maxDelay.
// Rate-limit errors carrying a Retry-After hint wait at least that long.
func (p *Policy) delayType(attempt uint, err error, _ *retrygo.Config) time.Duration {
	delay := p.InitialDelay << attempt
	if delay > maxDelay || delay < 0 {
		delay = maxDelay
	}
	if rle, ok := providers.IsRateLimitError(err); ok && rle.RetryAfter > delay {
		delay = rle.RetryAfter
	}
	if p.onDelay != nil && p.onDelay(attempt, delay) {
		return 0
	}
	return delay
}
