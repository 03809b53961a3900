package errors

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/iho/sharefund/internal/domain"
)

// MapDomainError converts domain errors to appropriate gRPC status codes
// This prevents internal error details from being exposed to clients
func MapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var validation *domain.ValidationError
	var unavailable *domain.SharesUnavailableError

	switch {
	// Partial failures wrap arbitrary store errors and must not look retryable.
	case errors.Is(err, domain.ErrPartialFailure):
		return status.Error(codes.DataLoss, "shares reserved but investment not recorded")

	// Not Found errors
	case errors.Is(err, domain.ErrProjectNotFound):
		return status.Error(codes.NotFound, "project not found")
	case errors.Is(err, domain.ErrInvestmentNotFound):
		return status.Error(codes.NotFound, "investment not found")

	// Invalid Argument errors
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, validation.Error())

	// Business rule violations
	case errors.As(err, &unavailable):
		return status.Error(codes.FailedPrecondition,
			fmt.Sprintf("not enough shares available: requested %d, available %d", unavailable.Requested, unavailable.Available))

	// Contention
	case errors.Is(err, domain.ErrReservationRetriesExhausted), errors.Is(err, domain.ErrTransientConflict):
		return status.Error(codes.Unavailable, "project is busy, retry the purchase")

	// Auth
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrExpiredToken):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, domain.ErrInsufficientRole):
		return status.Error(codes.PermissionDenied, "insufficient permissions")

	// Context errors (timeouts, cancellations)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "operation timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "operation was canceled")

	// Default: Internal error (don't expose details)
	default:
		return status.Error(codes.Internal, "an internal error occurred")
	}
}
