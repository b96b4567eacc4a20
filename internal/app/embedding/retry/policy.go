// Package retry implements a small retry-with-backoff policy for remote calls.
package retry

import (
	"context"
	"errors"
	"math"
	"time"

	apperrors "verse-embed/internal/app/errors"
)

// Class is how a failure should be retried
type Class int

const (
	// Permanent failures are returned immediately
	Permanent Class = iota
	// Transient failures are retried after a fixed delay
	Transient
	// RateLimited failures are retried with exponential backoff
	RateLimited
)

func (c Class) String() string {
	switch c {
	case Transient:
		return "transient"
	case RateLimited:
		return "rate_limited"
	default:
		return "permanent"
	}
}

// Classifier maps an error to its retry class
type Classifier func(err error) Class

// Backoff returns the wait before the next attempt. attempt is zero-based and
// names the attempt that just failed.
type Backoff func(class Class, attempt int) time.Duration

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy is a reusable retry decorator configuration
type Policy struct {
	MaxAttempts int
	Classify    Classifier
	Backoff     Backoff
	Sleep       Sleeper

	// OnRetry is called before each wait
	OnRetry func(attempt int, class Class, wait time.Duration, err error)
}

// DefaultPolicy retries rate limits after 2^attempt*rateLimitBase and other
// transient failures after fixedDelay
func DefaultPolicy(maxAttempts int, rateLimitBase, fixedDelay time.Duration, classify Classifier) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Classify:    classify,
		Backoff:     ExponentialForRateLimit(rateLimitBase, fixedDelay),
		Sleep:       SleepContext,
	}
}

// ExponentialForRateLimit waits base*2^attempt on rate limits and fixed otherwise
func ExponentialForRateLimit(base, fixed time.Duration) Backoff {
	return func(class Class, attempt int) time.Duration {
		if class == RateLimited {
			return time.Duration(float64(base) * math.Pow(2, float64(attempt)))
		}
		return fixed
	}
}

// SleepContext sleeps with context awareness
func SleepContext(ctx context.Context, d time.Duration) error {
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

// Do runs op until it succeeds, fails permanently or the attempts run out.
// Every failure is returned as an *apperrors.EmbeddingError.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	classify := p.Classify
	if classify == nil {
		classify = func(error) Class { return Transient }
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, &apperrors.EmbeddingError{Kind: apperrors.EmbeddingPermanent, Attempts: attempt, Err: err}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		class := classify(err)
		if class == Permanent || isContextErr(err) {
			return zero, &apperrors.EmbeddingError{Kind: apperrors.EmbeddingPermanent, Attempts: attempt + 1, Err: err}
		}

		// Don't sleep after the last attempt
		if attempt == maxAttempts-1 {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(class, attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, class, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, &apperrors.EmbeddingError{Kind: apperrors.EmbeddingPermanent, Attempts: attempt + 1, Err: err}
		}
	}

	return zero, &apperrors.EmbeddingError{Kind: apperrors.EmbeddingExhausted, Attempts: maxAttempts, Err: lastErr}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
