package converter_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/adapter/grpc/api"
	"github.com/iho/sharefund/internal/adapter/grpc/converter"
	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

func TestProjectToAPI(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &domain.Project{
		ID:              "p-1",
		Title:           "Rooftop",
		PricePerShare:   decimal.RequireFromString("125.50"),
		AvailableShares: 100,
		SoldShares:      40,
		ExpectedROI:     decimal.RequireFromString("9.5"),
		Status:          domain.ProjectStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	got := converter.ProjectToAPI(p)
	if got.PricePerShare != "125.5" || got.RemainingShares != 60 || got.Status != "active" {
		t.Fatalf("unexpected project: %+v", got)
	}
	if ts := converter.ParseTimestamp(got.CreatedAt); ts == nil || !ts.Equal(now) {
		t.Fatalf("expected created_at %v, got %v", now, ts)
	}

	if converter.ProjectToAPI(nil) != nil {
		t.Fatalf("expected nil for nil project")
	}
}

func TestInvestmentToAPI(t *testing.T) {
	t.Parallel()

	inv := &domain.Investment{
		ID:              "inv-1",
		SharesPurchased: 3,
		AmountInvested:  decimal.RequireFromString("300"),
		PaymentStatus:   domain.PaymentStatusCompleted,
	}

	got := converter.InvestmentToAPI(inv)
	if got.AmountInvested != "300" || got.PaymentStatus != "completed" || got.CreatedAt != nil {
		t.Fatalf("unexpected investment: %+v", got)
	}
}

func TestReconciliationAndPurchaseInput(t *testing.T) {
	t.Parallel()

	res := converter.ReconciliationToAPI(&usecase.ReconciliationResult{ProjectID: "p-1", Difference: 2})
	if res.ProjectID != "p-1" || res.Difference != 2 || res.LastChecked != nil {
		t.Fatalf("unexpected reconciliation: %+v", res)
	}

	in := converter.PurchaseInput(&api.PurchaseRequest{ProjectID: "p-1", BuyerID: "b-1", Shares: 4})
	if in != (usecase.PurchaseInput{ProjectID: "p-1", BuyerID: "b-1", Shares: 4}) {
		t.Fatalf("unexpected input: %+v", in)
	}
}
