package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

func TestProjectFromDomain(t *testing.T) {
	now := time.Now()
	project := &domain.Project{
		ID:              "p-1",
		Title:           "Rooftop Array",
		PricePerShare:   decimal.RequireFromString("100"),
		AvailableShares: 200,
		SoldShares:      200,
		Status:          domain.ProjectStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	resp := ProjectFromDomain(project)
	if resp.Status != "funded" {
		t.Fatalf("expected derived funded status, got %s", resp.Status)
	}
	if resp.RemainingShares != 0 || !resp.FundedPercent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected progress: remaining=%d funded=%s", resp.RemainingShares, resp.FundedPercent)
	}

	list := ProjectsFromDomain([]*domain.Project{project})
	if len(list) != 1 || list[0].ID != "p-1" {
		t.Fatalf("ProjectsFromDomain returned %+v", list)
	}
}

func TestInvestmentFromDomain(t *testing.T) {
	inv := &domain.Investment{
		ID:              "inv-1",
		ProjectID:       "p-1",
		BuyerID:         "buyer-1",
		SharesPurchased: 5,
		PricePerShare:   decimal.RequireFromString("1000"),
		AmountInvested:  decimal.RequireFromString("5000"),
		PaymentStatus:   domain.PaymentStatusCompleted,
	}

	resp := InvestmentFromDomain(inv)
	if resp.ID != "inv-1" || resp.AmountInvested.String() != "5000" || resp.PaymentStatus != "completed" {
		t.Fatalf("unexpected investment response: %+v", resp)
	}
}

func TestReportFromUseCase(t *testing.T) {
	report := &usecase.ReconciliationReport{
		TotalProjects:      2,
		ReconciledProjects: 1,
		UnrecordedShares:   3,
		Discrepancies: []*usecase.ReconciliationResult{
			{ProjectID: "p-2", LedgerSoldShares: 10, RecordedShares: 7, Difference: 3},
		},
	}

	resp := ReportFromUseCase(report)
	if len(resp.Discrepancies) != 1 || resp.Discrepancies[0].Difference != 3 {
		t.Fatalf("unexpected report: %+v", resp)
	}
}

func TestReturnsFromDomainRounds(t *testing.T) {
	projection, err := domain.ProjectReturns(decimal.RequireFromString("1000"), decimal.RequireFromString("7"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := ReturnsFromDomain("p-1", 10, projection)
	if resp.Monthly.String() != "5.83" {
		t.Fatalf("expected monthly 5.83, got %s", resp.Monthly)
	}
}
