package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
)

// Config bounds the retry loop.
type Config struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxRetries:      5,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
		MaxElapsedTime:  5 * time.Second,
	}
}

// Retrier implements usecase.Retrier with exponential backoff.
// Only domain.ErrTransientConflict is retried; anything else is returned as is.
type Retrier struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a retrier. logger and m may be nil.
func New(cfg Config, logger *slog.Logger, m *metrics.Metrics) *Retrier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{cfg: cfg, logger: logger, metrics: m}
}

// Retry executes operation until it succeeds, fails permanently, or the retry
// budget runs out. Exhaustion yields *domain.RetryExhaustedError; caller
// cancellation yields the context error.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = r.cfg.MaxElapsedTime

	attempts := 0
	exhausted := false

	err := backoff.Retry(func() error {
		attempts++
		err := operation()
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrTransientConflict) {
			return backoff.Permanent(err)
		}

		if attempts > r.cfg.MaxRetries {
			exhausted = true
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.ReserveRetries.Inc()
		}
		r.logger.Debug("transient conflict, retrying",
			"error", err,
			"attempt", attempts,
		)

		return err
	}, backoff.WithContext(b, ctx))

	if err == nil {
		return nil
	}
	// A permanent outcome wins over a cancellation that raced it.
	if ctxErr := ctx.Err(); ctxErr != nil && !exhausted && isInterruptible(err) {
		return ctxErr
	}
	// MaxElapsedTime stops the loop with the last transient error as well.
	if exhausted || errors.Is(err, domain.ErrTransientConflict) {
		r.logger.Warn("retries exhausted",
			"error", err,
			"attempts", attempts,
		)
		return &domain.RetryExhaustedError{Attempts: attempts, Err: err}
	}
	return err
}

func isInterruptible(err error) bool {
	return errors.Is(err, domain.ErrTransientConflict) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
