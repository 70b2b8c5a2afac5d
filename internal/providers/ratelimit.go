package providers

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a token bucket limiter keyed to a
// requests-per-second budget.
type RateLimiter struct {
	mu sync.Mutex

	requestsPerSecond float64

	tokens     float64
	lastUpdate time.Time

	totalConsumed int64
	totalWaited   time.Duration
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.0
	}
	return &RateLimiter{
		requestsPerSecond: requestsPerSecond,
		tokens:            requestsPerSecond,
		lastUpdate:        time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()

		if r.tokens >= 1.0 {
			r.tokens--
			r.totalConsumed++
			r.mu.Unlock()
			return nil
		}

		tokensNeeded := 1.0 - r.tokens
		waitTime := time.Duration(tokensNeeded / r.requestsPerSecond * float64(time.Second))
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
			r.mu.Lock()
			r.totalWaited += waitTime
			r.mu.Unlock()
		}
	}
}

// refill adds tokens based on elapsed time. Caller must hold the lock.
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastUpdate).Seconds()
	r.lastUpdate = now

	r.tokens += elapsed * r.requestsPerSecond
	if r.tokens > r.requestsPerSecond {
		r.tokens = r.requestsPerSecond
	}
}

// TotalConsumed returns the number of tokens consumed since creation.
func (r *RateLimiter) TotalConsumed() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalConsumed
}

// TotalWaited returns the cumulative time spent waiting for tokens.
func (r *RateLimiter) TotalWaited() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalWaited
}

// RateLimited wraps a Provider so every Generate call first acquires a
// token from a shared limiter.
type RateLimited struct {
	inner   Provider
	limiter *RateLimiter
}

// NewRateLimited decorates a provider with a requests-per-second budget.
func NewRateLimited(inner Provider, requestsPerSecond float64) *RateLimited {
	return &RateLimited{
		inner:   inner,
		limiter: NewRateLimiter(requestsPerSecond),
	}
}

// Name returns the wrapped provider's identifier.
func (r *RateLimited) Name() string {
	return r.inner.Name()
}

// Model returns the wrapped provider's default model.
func (r *RateLimited) Model() string {
	return r.inner.Model()
}

// Generate waits for a token, then delegates.
func (r *RateLimited) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Generate(ctx, req)
}

// Verify interface
var _ Provider = (*RateLimited)(nil)
