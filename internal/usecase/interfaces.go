package usecase

import (
	"context"
	"time"

	"github.com/iho/sharefund/internal/domain"
)

// ProjectRepository defines data access for projects.
type ProjectRepository interface {
	Create(ctx context.Context, tx Transaction, project *domain.Project) error
	// GetByID always reads the store, never a cache.
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error)
	// ListIDsAfter returns up to limit project IDs greater than afterID in
	// ascending order. Rows inserted during a scan never shift later pages.
	ListIDsAfter(ctx context.Context, afterID string, limit int) ([]string, error)
	// CompareAndSwapSoldShares sets sold_shares to next only if it still equals
	// expected and next does not exceed available_shares. It reports whether
	// the row was updated. Serialization failures map to domain.ErrTransientConflict.
	CompareAndSwapSoldShares(ctx context.Context, id string, expected, next int64, updatedAt time.Time) (bool, error)
}

// InvestmentRepository defines data access for investments.
type InvestmentRepository interface {
	Create(ctx context.Context, tx Transaction, investment *domain.Investment) error
	GetByID(ctx context.Context, id string) (*domain.Investment, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error)
	ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error)
	SumSharesByProject(ctx context.Context, projectID string) (int64, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on domain.ErrTransientConflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Notifier dispatches buyer notifications without blocking the caller.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

// ProjectCache holds non-authoritative project snapshots for display reads.
type ProjectCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, id string) (*domain.Project, error)
	Set(ctx context.Context, project *domain.Project) error
	Invalidate(ctx context.Context, id string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release forgets a key so the request can be sent again.
	Release(ctx context.Context, key string) error
}
