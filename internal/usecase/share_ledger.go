package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
)

// ShareLedger owns the authoritative sold share count of every project.
// It is the only writer of Project.SoldShares.
type ShareLedger struct {
	projectRepo ProjectRepository
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewShareLedger(projectRepo ProjectRepository, metrics *metrics.Metrics) *ShareLedger {
	return &ShareLedger{
		projectRepo: projectRepo,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Reserve atomically adds requested shares to the project's sold count.
//
// The count is read fresh from the store and written back with a
// compare-and-swap, so a concurrent writer makes this call fail with
// domain.ErrTransientConflict instead of overselling. Callers retry through a
// Retrier. On any error the store is left unchanged. Cancellation is honoured
// up to the compare-and-swap; the swap itself runs detached, so a call that
// reaches it returns its real outcome.
func (l *ShareLedger) Reserve(ctx context.Context, projectID string, requested int64) (*domain.Reservation, error) {
	reservation, err := l.reserve(ctx, projectID, requested)

	if l.metrics != nil {
		l.metrics.Reservations.WithLabelValues(outcomeOf(err)).Inc()
		if err == nil {
			l.metrics.SharesReserved.Add(float64(requested))
		}
	}

	return reservation, err
}

func (l *ShareLedger) reserve(ctx context.Context, projectID string, requested int64) (*domain.Reservation, error) {
	if requested < 1 {
		return nil, domain.NewValidationError("shares", "must be at least 1")
	}

	project, err := l.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := project.ValidateReservation(requested); err != nil {
		return nil, err
	}

	next := project.SoldShares + requested
	now := l.now()

	// The swap runs detached: a committed write is never reported as a cancellation.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ReserveWriteTimeout)
	defer cancel()

	swapped, err := l.projectRepo.CompareAndSwapSoldShares(writeCtx, project.ID, project.SoldShares, next, now)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, fmt.Errorf("project %s: sold shares changed from %d: %w",
			project.ID, project.SoldShares, domain.ErrTransientConflict)
	}

	return &domain.Reservation{
		ProjectID:       project.ID,
		Requested:       requested,
		SoldShares:      next,
		AvailableShares: project.AvailableShares,
		Version:         project.Version + 1,
		ReservedAt:      now,
	}, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, domain.ErrSharesUnavailable):
		return metrics.OutcomeSharesUnavail
	case errors.Is(err, domain.ErrProjectNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrReservationRetriesExhausted):
		return metrics.OutcomeRetriesExhausted
	case errors.Is(err, domain.ErrTransientConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, domain.ErrPartialFailure):
		return metrics.OutcomePartialFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
