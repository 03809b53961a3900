package domain

import (
	"errors"
	"fmt"
)

var (
	// Project errors
	ErrProjectNotFound = errors.New("project not found")

	// Investment errors
	ErrInvestmentNotFound = errors.New("investment not found")

	// Reservation errors
	ErrValidation                  = errors.New("validation failed")
	ErrSharesUnavailable           = errors.New("not enough shares available")
	ErrTransientConflict           = errors.New("concurrent update on project shares")
	ErrReservationRetriesExhausted = errors.New("reservation retries exhausted")
	ErrPartialFailure              = errors.New("shares reserved but investment not recorded")
)

// ValidationError rejects a request before the ledger is touched.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SharesUnavailableError carries the remaining pool as observed by the ledger.
type SharesUnavailableError struct {
	ProjectID string
	Requested int64
	Available int64
}

func (e *SharesUnavailableError) Error() string {
	return fmt.Sprintf("%s: requested %d, available %d", ErrSharesUnavailable, e.Requested, e.Available)
}

func (e *SharesUnavailableError) Is(target error) bool {
	return target == ErrSharesUnavailable
}

// RetryExhaustedError is returned once the bounded conflict retries run out.
// The caller may retry the whole request.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrReservationRetriesExhausted, e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrReservationRetriesExhausted
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

// PartialFailureError reports committed shares whose investment record is missing.
// It must be reconciled by an operator and never retried as a fresh purchase.
type PartialFailureError struct {
	Investment  *Investment
	Reservation *Reservation
	Err         error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: project %s, buyer %s, %d shares: %v",
		ErrPartialFailure, e.Investment.ProjectID, e.Investment.BuyerID, e.Investment.SharesPurchased, e.Err)
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the caller may safely resend the same purchase.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientConflict) || errors.Is(err, ErrReservationRetriesExhausted)
}
