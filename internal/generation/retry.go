package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/phrazzld/scry-match/internal/redact"
)

// RetryPolicy controls how transient failures are retried. Only errors
// wrapping ErrTransientFailure are retried.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is scaled by 2^attempt and a jitter factor in [0.5, 1.0).
	BaseDelay time.Duration
	// Jitter returns a value in [0, 1). Nil uses math/rand.
	Jitter func() float64
	// Wait blocks for d or until ctx is done. Nil uses a timer.
	Wait func(ctx context.Context, d time.Duration) error
}

// Backoff returns the delay before retry number attempt+1:
// BaseDelay * 2^attempt * (0.5 + jitter/2).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	jitter := rand.Float64
	if p.Jitter != nil {
		jitter = p.Jitter
	}
	factor := math.Pow(2, float64(attempt)) * (0.5 + jitter()*0.5)
	return time.Duration(float64(p.BaseDelay) * factor)
}

func (p RetryPolicy) wait(ctx context.Context, d time.Duration) error {
	if p.Wait != nil {
		return p.Wait(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry calls op until it succeeds, fails permanently, or the policy runs
// out of retries. attempt is zero-based.
func Retry(
	ctx context.Context,
	logger *slog.Logger,
	policy RetryPolicy,
	op func(ctx context.Context, attempt int) error,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}

		if !errors.Is(err, ErrTransientFailure) {
			logger.WarnContext(ctx, "permanent error occurred, not retrying",
				"attempt", attempt+1,
				redact.Attr(err))
			return err
		}

		if attempt >= maxRetries {
			logger.WarnContext(ctx, "maximum retry attempts reached",
				"max_retries", maxRetries,
				redact.Attr(err))
			return fmt.Errorf("exceeded maximum retry attempts (%d): %w", maxRetries, err)
		}

		delay := policy.Backoff(attempt)
		logger.InfoContext(ctx, "retrying after delay",
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
			redact.Attr(err))

		if werr := policy.wait(ctx, delay); werr != nil {
			logger.WarnContext(ctx, "call cancelled during retry delay",
				"attempt", attempt+1,
				"ctx_err", werr)
			return fmt.Errorf("%w: %v", ErrTransientFailure, werr)
		}
	}
}
