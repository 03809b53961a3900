package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
)

// PurchaseInput is a request to buy shares of one project.
type PurchaseInput struct {
	BuyerID   string
	ProjectID string
	Shares    int64
}

type InvestmentUseCase struct {
	txManager      TransactionManager
	projectRepo    ProjectRepository
	investmentRepo InvestmentRepository
	auditRepo      AuditRepository
	ledger         *ShareLedger
	retrier        Retrier
	cache          ProjectCache
	notifier       Notifier
	idGen          IDGenerator
	logger         zerolog.Logger
	metrics        *metrics.Metrics
}

// NewInvestmentUseCase wires the purchase flow. auditRepo, cache, notifier
// and metrics are optional.
func NewInvestmentUseCase(
	txManager TransactionManager,
	projectRepo ProjectRepository,
	investmentRepo InvestmentRepository,
	auditRepo AuditRepository,
	ledger *ShareLedger,
	retrier Retrier,
	cache ProjectCache,
	notifier Notifier,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *InvestmentUseCase {
	return &InvestmentUseCase{
		txManager:      txManager,
		projectRepo:    projectRepo,
		investmentRepo: investmentRepo,
		auditRepo:      auditRepo,
		ledger:         ledger,
		retrier:        retrier,
		cache:          cache,
		notifier:       notifier,
		idGen:          idGen,
		logger:         logger.With().Str("component", "investment").Logger(),
		metrics:        metrics,
	}
}

// Purchase reserves shares and records the resulting investment.
//
// Validation failures, unknown projects and an exhausted pool leave the store
// untouched. Once the ledger has committed the shares the purchase can no
// longer be rejected: a failure to record the investment is reported as
// *domain.PartialFailureError and must not be retried as a new purchase.
func (uc *InvestmentUseCase) Purchase(ctx context.Context, in PurchaseInput) (*domain.Investment, error) {
	start := time.Now()
	investment, err := uc.purchase(ctx, in)

	if uc.metrics != nil {
		uc.metrics.Purchases.WithLabelValues(outcomeOf(err)).Inc()
		uc.metrics.PurchaseDuration.Observe(time.Since(start).Seconds())
		if err == nil {
			amount, _ := investment.AmountInvested.Float64()
			uc.metrics.PurchaseAmount.Observe(amount)
		}
	}

	return investment, err
}

func (uc *InvestmentUseCase) purchase(ctx context.Context, in PurchaseInput) (*domain.Investment, error) {
	flow := purchaseFlow{state: domain.PurchaseRequested, logger: uc.logger}
	flow.to(domain.PurchaseValidating)

	if err := domain.ValidateShares(in.Shares); err != nil {
		flow.to(domain.PurchaseRejected)
		return nil, err
	}
	if err := domain.ValidateBuyerID(in.BuyerID); err != nil {
		flow.to(domain.PurchaseRejected)
		return nil, err
	}

	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		flow.to(domain.PurchaseRejected)
		return nil, err
	}
	if err := domain.ValidatePurchaseAmount(in.Shares, project.PricePerShare); err != nil {
		flow.to(domain.PurchaseRejected)
		return nil, err
	}
	if err := domain.ValidateProjectPurchasable(project); err != nil {
		flow.to(domain.PurchaseRejected)
		return nil, err
	}

	// The price is frozen at this read; price changes are not part of this flow.
	price := project.PricePerShare
	roi := project.ExpectedROI

	flow.to(domain.PurchaseReserving)
	reservation, err := uc.reserve(ctx, project.ID, in.Shares)
	if err != nil {
		flow.to(domain.PurchaseRejected)
		return nil, err
	}
	flow.to(domain.PurchaseReserved)

	amount := price.Mul(decimal.NewFromInt(in.Shares))
	investment := &domain.Investment{
		ID:                   uc.idGen.Generate(),
		ProjectID:            project.ID,
		BuyerID:              in.BuyerID,
		SharesPurchased:      in.Shares,
		PricePerShare:        price,
		AmountInvested:       amount,
		ExpectedAnnualReturn: domain.AnnualReturn(amount, roi),
		PaymentStatus:        domain.PaymentStatusCompleted,
		CreatedAt:            reservation.ReservedAt,
	}

	// Shares are committed; the caller going away must not abandon the record.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	flow.to(domain.PurchaseRecording)
	if err := uc.record(recordCtx, ctx, investment); err != nil {
		flow.to(domain.PurchasePartialFailure)
		if uc.metrics != nil {
			uc.metrics.PartialFailures.Inc()
		}
		uc.logger.Error().
			Err(err).
			Str("project_id", investment.ProjectID).
			Str("buyer_id", investment.BuyerID).
			Str("investment_id", investment.ID).
			Int64("shares", investment.SharesPurchased).
			Str("amount", investment.AmountInvested.String()).
			Int64("sold_shares", reservation.SoldShares).
			Msg("shares reserved but investment not recorded, reconciliation required")
		return nil, &domain.PartialFailureError{
			Investment:  investment,
			Reservation: reservation,
			Err:         err,
		}
	}
	flow.to(domain.PurchaseCompleted)

	uc.afterCommit(recordCtx, project, investment)

	return investment, nil
}

func (uc *InvestmentUseCase) reserve(ctx context.Context, projectID string, shares int64) (*domain.Reservation, error) {
	if uc.retrier == nil {
		return uc.ledger.Reserve(ctx, projectID, shares)
	}

	var reservation *domain.Reservation
	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.ledger.Reserve(ctx, projectID, shares)
		if err != nil {
			return err
		}
		reservation = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// record persists the investment and its audit row in one transaction.
// requestCtx only supplies the acting user.
func (uc *InvestmentUseCase) record(ctx, requestCtx context.Context, investment *domain.Investment) error {
	if err := investment.Validate(); err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := uc.investmentRepo.Create(ctx, tx, investment); err != nil {
		return err
	}

	if uc.auditRepo != nil {
		actorID := ""
		if user, ok := domain.UserFromContext(requestCtx); ok {
			actorID = user.ID
		}
		auditLog := domain.NewInvestmentAudit(uc.idGen.Generate(), investment, actorID)
		if err := uc.auditRepo.CreateTx(ctx, tx, auditLog); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil && uc.auditRepo != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionInvestmentCreate), string(domain.AuditStatusSuccess)).Inc()
	}
	return nil
}

// afterCommit runs best-effort side effects; failures are logged only.
func (uc *InvestmentUseCase) afterCommit(ctx context.Context, project *domain.Project, investment *domain.Investment) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, project.ID); err != nil {
			uc.logger.Warn().Err(err).Str("project_id", project.ID).Msg("failed to invalidate project snapshot")
		}
	}

	if uc.notifier != nil {
		notification := domain.NewInvestmentNotification(investment, project.Title)
		if err := uc.notifier.Notify(ctx, notification); err != nil {
			uc.logger.Warn().
				Err(err).
				Str("investment_id", investment.ID).
				Str("buyer_id", investment.BuyerID).
				Msg("notification not dispatched")
		}
	}
}

// GetInvestment returns one investment.
func (uc *InvestmentUseCase) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	return uc.investmentRepo.GetByID(ctx, id)
}

// ListInvestmentsByBuyer returns a buyer's investments, newest first.
func (uc *InvestmentUseCase) ListInvestmentsByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error) {
	if err := domain.ValidateBuyerID(buyerID); err != nil {
		return nil, err
	}
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.investmentRepo.ListByBuyer(ctx, buyerID, limit, offset)
}

// ListInvestmentsByProject returns the investments recorded against a project.
func (uc *InvestmentUseCase) ListInvestmentsByProject(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error) {
	if _, err := uc.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.investmentRepo.ListByProject(ctx, projectID, limit, offset)
}

// PortfolioSummary aggregates every investment of a buyer. AverageROI is the
// mean of the projects' current ROI over the buyer's investments.
func (uc *InvestmentUseCase) PortfolioSummary(ctx context.Context, buyerID string) (*domain.PortfolioSummary, error) {
	if err := domain.ValidateBuyerID(buyerID); err != nil {
		return nil, err
	}

	summary := &domain.PortfolioSummary{
		BuyerID:              buyerID,
		TotalInvested:        decimal.Zero,
		ExpectedAnnualReturn: decimal.Zero,
		AverageROI:           decimal.Zero,
	}

	roiByProject := make(map[string]decimal.Decimal)
	roiSum := decimal.Zero

	const pageSize = 1000
	for offset := 0; ; offset += pageSize {
		page, err := uc.investmentRepo.ListByBuyer(ctx, buyerID, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, inv := range page {
			roi, ok := roiByProject[inv.ProjectID]
			if !ok {
				project, err := uc.projectRepo.GetByID(ctx, inv.ProjectID)
				if err != nil {
					return nil, err
				}
				roi = project.ExpectedROI
				roiByProject[inv.ProjectID] = roi
			}

			summary.InvestmentCount++
			summary.TotalShares += inv.SharesPurchased
			summary.TotalInvested = summary.TotalInvested.Add(inv.AmountInvested)
			summary.ExpectedAnnualReturn = summary.ExpectedAnnualReturn.Add(inv.ExpectedAnnualReturn)
			roiSum = roiSum.Add(roi)
		}

		if len(page) < pageSize {
			break
		}
	}

	if summary.InvestmentCount > 0 {
		summary.AverageROI = roiSum.Div(decimal.NewFromInt(int64(summary.InvestmentCount)))
	}

	return summary, nil
}

// purchaseFlow tracks the purchase state machine for diagnostics.
type purchaseFlow struct {
	state  domain.PurchaseState
	logger zerolog.Logger
}

func (f *purchaseFlow) to(next domain.PurchaseState) {
	if !f.state.CanTransition(next) {
		f.logger.Error().
			Str("from", string(f.state)).
			Str("to", string(next)).
			Msg("invalid purchase state transition")
	}
	f.state = next
}
