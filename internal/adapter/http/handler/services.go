package handler

import (
	"context"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

// ProjectService is the project use case as seen by the HTTP layer.
type ProjectService interface {
	CreateProject(ctx context.Context, in usecase.CreateProjectInput) (*domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error)
	ProjectReturns(ctx context.Context, id string, shares int64, years int) (*domain.ReturnProjection, error)
}

// InvestmentService is the purchase use case as seen by the HTTP layer.
type InvestmentService interface {
	Purchase(ctx context.Context, in usecase.PurchaseInput) (*domain.Investment, error)
	GetInvestment(ctx context.Context, id string) (*domain.Investment, error)
	ListInvestmentsByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error)
	ListInvestmentsByProject(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error)
	PortfolioSummary(ctx context.Context, buyerID string) (*domain.PortfolioSummary, error)
}

// ReconciliationService compares ledger counters with recorded investments.
type ReconciliationService interface {
	ReconcileProject(ctx context.Context, projectID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// NotificationInbox lists the recent notifications of a buyer.
type NotificationInbox interface {
	Recent(ctx context.Context, buyerID string, limit int64) ([]domain.Notification, error)
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
