package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

const investmentColumns = `id, project_id, buyer_id, shares_purchased, price_per_share,
	amount_invested, expected_annual_return, payment_status, created_at`

// InvestmentRepository implements usecase.InvestmentRepository.
type InvestmentRepository struct {
	store *Store
}

// NewInvestmentRepository creates a new InvestmentRepository.
func NewInvestmentRepository(store *Store) *InvestmentRepository {
	return &InvestmentRepository{store: store}
}

// Create inserts an investment inside tx.
func (r *InvestmentRepository) Create(ctx context.Context, tx usecase.Transaction, inv *domain.Investment) error {
	q, err := txQuerier(tx)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `INSERT INTO investments (`+investmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.ProjectID,
		inv.BuyerID,
		inv.SharesPurchased,
		inv.PricePerShare.String(),
		inv.AmountInvested.String(),
		inv.ExpectedAnnualReturn.String(),
		string(inv.PaymentStatus),
		formatTime(inv.CreatedAt),
	)
	return mapError(err)
}

// GetByID retrieves an investment by ID.
func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Investment, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+investmentColumns+` FROM investments WHERE id = ?`, id)
	inv, err := scanInvestment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, mapError(err)
	}
	return inv, nil
}

// ListByBuyer lists a buyer's investments, newest first.
func (r *InvestmentRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error) {
	return r.list(ctx, `buyer_id = ?`, buyerID, limit, offset)
}

// ListByProject lists a project's investments, newest first.
func (r *InvestmentRepository) ListByProject(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error) {
	return r.list(ctx, `project_id = ?`, projectID, limit, offset)
}

// SumSharesByProject returns the total shares recorded against a project.
func (r *InvestmentRepository) SumSharesByProject(ctx context.Context, projectID string) (int64, error) {
	var total int64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(shares_purchased), 0) FROM investments WHERE project_id = ?`, projectID).
		Scan(&total)
	if err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func (r *InvestmentRepository) list(ctx context.Context, where string, arg any, limit, offset int) ([]*domain.Investment, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE `+where+
			` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		arg, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, mapError(rows.Err())
}

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var (
		inv                          domain.Investment
		price, amount, annual, state string
		createdAt                    string
	)
	if err := row.Scan(
		&inv.ID,
		&inv.ProjectID,
		&inv.BuyerID,
		&inv.SharesPurchased,
		&price,
		&amount,
		&annual,
		&state,
		&createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	if inv.PricePerShare, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price_per_share: %w", err)
	}
	if inv.AmountInvested, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount_invested: %w", err)
	}
	if inv.ExpectedAnnualReturn, err = decimal.NewFromString(annual); err != nil {
		return nil, fmt.Errorf("parse expected_annual_return: %w", err)
	}
	inv.PaymentStatus = domain.PaymentStatus(state)
	inv.CreatedAt = parseTime(createdAt)
	return &inv, nil
}
