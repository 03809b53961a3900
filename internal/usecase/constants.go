package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// ReserveWriteTimeout bounds the compare-and-swap of a reservation.
	ReserveWriteTimeout = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// reconciliationPageSize bounds each page of projects scanned by reconciliation.
	reconciliationPageSize = 1000

	systemActor = "system"
)
