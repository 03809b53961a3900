package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/postgres/generated"
	"github.com/iho/sharefund/internal/usecase"
)

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	queries *generated.Queries
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(pool DB) *InvestmentRepository {
	return &InvestmentRepository{queries: generated.New(pool)}
}

// Create inserts an investment inside tx.
func (r *InvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, investment *domain.Investment) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return mapError(queries.CreateInvestment(ctx, generated.CreateInvestmentParams{
		ID:                   investment.ID,
		ProjectID:            investment.ProjectID,
		BuyerID:              investment.BuyerID,
		SharesPurchased:      investment.SharesPurchased,
		PricePerShare:        decimalToNumeric(investment.PricePerShare),
		AmountInvested:       decimalToNumeric(investment.AmountInvested),
		ExpectedAnnualReturn: decimalToNumeric(investment.ExpectedAnnualReturn),
		PaymentStatus:        string(investment.PaymentStatus),
		CreatedAt:            timeToPgTimestamptz(investment.CreatedAt),
	}))
}

// GetByID retrieves an investment by ID.
func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Investment, error) {
	row, err := r.queries.GetInvestmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvestmentNotFound
		}

		return nil, mapError(err)
	}

	return rowToInvestment(row), nil
}

// ListByBuyer lists a buyer's investments, newest first.
func (r *InvestmentRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error) {
	rows, err := r.queries.ListInvestmentsByBuyer(ctx, generated.ListInvestmentsByBuyerParams{
		BuyerID: buyerID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToInvestments(rows), nil
}

// ListByProject lists a project's investments, newest first.
func (r *InvestmentRepository) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error) {
	rows, err := r.queries.ListInvestmentsByProject(ctx, generated.ListInvestmentsByProjectParams{
		ProjectID: projectID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToInvestments(rows), nil
}

// SumSharesByProject returns the total shares recorded against a project.
func (r *InvestmentRepository) SumSharesByProject(ctx context.Context, projectID string) (int64, error) {
	total, err := r.queries.SumSharesByProject(ctx, projectID)
	if err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func rowsToInvestments(rows []generated.Investment) []*domain.Investment {
	investments := make([]*domain.Investment, 0, len(rows))
	for _, row := range rows {
		investments = append(investments, rowToInvestment(row))
	}
	return investments
}

func rowToInvestment(row generated.Investment) *domain.Investment {
	return &domain.Investment{
		ID:                   row.ID,
		ProjectID:            row.ProjectID,
		BuyerID:              row.BuyerID,
		SharesPurchased:      row.SharesPurchased,
		PricePerShare:        numericToDecimal(row.PricePerShare),
		AmountInvested:       numericToDecimal(row.AmountInvested),
		ExpectedAnnualReturn: numericToDecimal(row.ExpectedAnnualReturn),
		PaymentStatus:        domain.PaymentStatus(row.PaymentStatus),
		CreatedAt:            row.CreatedAt.Time,
	}
}
