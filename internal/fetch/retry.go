package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"txrecipe/internal/models"
)

// WithRetry runs op, retrying transient failures with exponential
// backoff: the delay starts at InitialDelayMs and multiplies by
// Multiplier per attempt, capped at MaxDelayMs. Errors that cannot
// heal on retry (bad input, missing subpath, failed checkout) stop the
// loop immediately, as does context cancellation.
func WithRetry(ctx context.Context, policy models.RetryPolicy, name string, op func() error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(policy.InitialDelayMs) * time.Millisecond
	maxDelay := time.Duration(policy.MaxDelayMs) * time.Millisecond

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == attempts || !retryable(err) {
			return err
		}

		slog.Warn("attempt failed", "op", name, "attempt", attempt, "error", err)
		slog.Info("retrying", "op", name, "delay", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * policy.Multiplier)
		if maxDelay > 0 && delay > maxDelay {
			delay = maxDelay
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var te *models.TaskError
	if errors.As(err, &te) {
		switch te.Type {
		case models.ErrValidation, models.ErrSubpathNotFound, models.ErrCheckoutFailed, models.ErrFilesystemConflict:
			return false
		}
	}
	return true
}
