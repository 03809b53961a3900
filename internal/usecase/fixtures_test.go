package usecase_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
	"github.com/iho/sharefund/internal/infrastructure/retry"
	"github.com/iho/sharefund/internal/usecase"
	"github.com/iho/sharefund/internal/usecase/mocks"
)

type purchaseFixture struct {
	projects    *mocks.MockProjectRepository
	investments *mocks.MockInvestmentRepository
	audits      *mocks.MockAuditRepository
	txManager   *mocks.MockTransactionManager
	cache       *mocks.MockProjectCache
	metrics     *metrics.Metrics
	ledger      *usecase.ShareLedger
	retrier     *retry.Retrier
	uc          *usecase.InvestmentUseCase
}

// newPurchaseFixture wires the purchase flow over in-memory stores. notifier may be nil.
func newPurchaseFixture(t *testing.T, notifier usecase.Notifier) *purchaseFixture {
	t.Helper()

	f := &purchaseFixture{
		projects:    mocks.NewMockProjectRepository(),
		investments: mocks.NewMockInvestmentRepository(),
		audits:      mocks.NewMockAuditRepository(),
		txManager:   mocks.NewMockTransactionManager(),
		cache:       mocks.NewMockProjectCache(),
		metrics:     metrics.New(prometheus.NewRegistry()),
	}
	f.ledger = usecase.NewShareLedger(f.projects, f.metrics)
	f.retrier = retry.New(retry.Config{
		MaxRetries:      500,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}, nil, f.metrics)
	f.uc = usecase.NewInvestmentUseCase(
		f.txManager,
		f.projects,
		f.investments,
		f.audits,
		f.ledger,
		f.retrier,
		f.cache,
		notifier,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
		f.metrics,
	)
	return f
}

func seedProject(repo *mocks.MockProjectRepository, id string, price string, available, sold int64) *domain.Project {
	p := &domain.Project{
		ID:              id,
		Title:           "Solar " + id,
		Location:        "Pune",
		PricePerShare:   decimal.RequireFromString(price),
		AvailableShares: available,
		SoldShares:      sold,
		ExpectedROI:     decimal.NewFromInt(12),
		Status:          domain.ProjectStatusActive,
		Version:         1,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	repo.Seed(p)
	return p
}

func zeroLogger() zerolog.Logger {
	return zerolog.Nop()
}
