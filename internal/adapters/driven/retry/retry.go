// Package retry decorates driven ports with bounded retries.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// Backoff strategies.
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// Policy bounds how often and how patiently a call is repeated.
type Policy struct {
	MaxAttempts int           // Total attempts including the first, at least 1
	Delay       time.Duration // Wait before the second attempt
	Backoff     string        // BackoffFixed or BackoffExponential
}

// DefaultPolicy returns three attempts one second apart.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: time.Second, Backoff: BackoffFixed}
}

// wait returns the pause after the given failed attempt (1-based).
func (p Policy) wait(attempt int) time.Duration {
	if p.Backoff != BackoffExponential {
		return p.Delay
	}
	return p.Delay << (attempt - 1)
}

// Retryable reports whether err may succeed on another attempt. Caller
// mistakes, missing resources and cancellation are final.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidInput):
		return false
	default:
		return true
	}
}

type retrier struct {
	policy Policy
	logger *slog.Logger
}

func newRetrier(policy Policy, logger *slog.Logger) retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return retrier{policy: policy, logger: logger}
}

func do[T any](ctx context.Context, r retrier, op string, fn func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 1; ; attempt++ {
		result, err = fn(ctx)
		if err == nil || !Retryable(err) || attempt >= r.policy.MaxAttempts {
			return result, err
		}

		delay := r.policy.wait(attempt)
		r.logger.Warn("remote call failed, retrying",
			"operation", op,
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, ctx.Err()
		case <-timer.C:
		}
	}
}
