package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
)

var investmentColumns = []string{
	"id", "project_id", "buyer_id", "shares_purchased", "price_per_share",
	"amount_invested", "expected_annual_return", "payment_status", "created_at",
}

func TestInvestmentRepositoryCreateMapsMissingProject(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO investments").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation, ConstraintName: "investments_project_id_fkey"})
	mockPool.ExpectRollback()

	ctx := context.Background()
	tx, err := NewTxManager(mockPool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	err = NewInvestmentRepository(mockPool).Create(ctx, tx, &domain.Investment{
		ID:              "inv-1",
		ProjectID:       "gone",
		BuyerID:         "buyer-1",
		SharesPurchased: 2,
		PricePerShare:   decimal.NewFromInt(10),
		AmountInvested:  decimal.NewFromInt(20),
		PaymentStatus:   domain.PaymentStatusCompleted,
		CreatedAt:       time.Now(),
	})
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	_ = tx.Rollback(ctx)
	assertExpectations(t, mockPool)
}

func TestInvestmentRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()
	mockPool.ExpectQuery("FROM investments WHERE id").
		WithArgs("inv-1").
		WillReturnRows(pgxmock.NewRows(investmentColumns).
			AddRow("inv-1", "p-1", "buyer-1", int64(4), "25.00", "100.00", "12.0000", "completed", now))

	inv, err := NewInvestmentRepository(mockPool).GetByID(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.SharesPurchased != 4 || !inv.AmountInvested.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected investment: %+v", inv)
	}
	if err := inv.Validate(); err != nil {
		t.Fatalf("round-tripped investment invalid: %v", err)
	}
}

func TestInvestmentRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("FROM investments WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewInvestmentRepository(mockPool).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrInvestmentNotFound) {
		t.Fatalf("expected ErrInvestmentNotFound, got %v", err)
	}
}

func TestInvestmentRepositoryListByBuyer(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()
	mockPool.ExpectQuery("WHERE buyer_id").
		WithArgs("buyer-1", int32(50), int32(0)).
		WillReturnRows(pgxmock.NewRows(investmentColumns).
			AddRow("inv-2", "p-1", "buyer-1", int64(1), "25", "25", "3", "completed", now).
			AddRow("inv-1", "p-2", "buyer-1", int64(2), "10", "20", "2", "completed", now.Add(-time.Hour)))

	investments, err := NewInvestmentRepository(mockPool).ListByBuyer(context.Background(), "buyer-1", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(investments) != 2 || investments[0].ID != "inv-2" {
		t.Fatalf("unexpected investments: %+v", investments)
	}
	assertExpectations(t, mockPool)
}

func TestInvestmentRepositorySumSharesByProject(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SUM\\(shares_purchased\\)").
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows([]string{"total_shares"}).AddRow(int64(42)))

	total, err := NewInvestmentRepository(mockPool).SumSharesByProject(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 42 {
		t.Fatalf("expected 42, got %d", total)
	}
}
