package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProject_ValidateReservation(t *testing.T) {
	tests := []struct {
		name          string
		available     int64
		sold          int64
		requested     int64
		wantErr       error
		wantAvailable int64
	}{
		{name: "fits", available: 100, sold: 0, requested: 5},
		{name: "exactly fills the pool", available: 10, sold: 8, requested: 2},
		{name: "exceeds remaining", available: 10, sold: 8, requested: 3, wantErr: ErrSharesUnavailable, wantAvailable: 2},
		{name: "funded project", available: 10, sold: 10, requested: 1, wantErr: ErrSharesUnavailable, wantAvailable: 0},
		{name: "zero shares", available: 10, sold: 0, requested: 0, wantErr: ErrValidation},
		{name: "negative shares", available: 10, sold: 0, requested: -4, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Project{ID: "p1", AvailableShares: tt.available, SoldShares: tt.sold}

			err := p.ValidateReservation(tt.requested)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			var unavailable *SharesUnavailableError
			if errors.As(err, &unavailable) {
				if unavailable.Available != tt.wantAvailable {
					t.Errorf("expected available %d, got %d", tt.wantAvailable, unavailable.Available)
				}
				if unavailable.Requested != tt.requested {
					t.Errorf("expected requested %d, got %d", tt.requested, unavailable.Requested)
				}
			}
		})
	}
}

func TestProject_EffectiveStatus(t *testing.T) {
	p := &Project{AvailableShares: 10, SoldShares: 9, Status: ProjectStatusActive}
	if got := p.EffectiveStatus(); got != ProjectStatusActive {
		t.Fatalf("expected active, got %s", got)
	}

	p.SoldShares = 10
	if got := p.EffectiveStatus(); got != ProjectStatusFunded {
		t.Fatalf("expected funded, got %s", got)
	}

	p.SoldShares = 3
	p.Status = ProjectStatusInactive
	if got := p.EffectiveStatus(); got != ProjectStatusInactive {
		t.Fatalf("expected inactive, got %s", got)
	}
}

func TestProject_CostAndProgress(t *testing.T) {
	p := &Project{
		PricePerShare:   decimal.RequireFromString("1000.10"),
		AvailableShares: 8,
		SoldShares:      2,
	}

	if got := p.CostOf(3); !got.Equal(decimal.RequireFromString("3000.30")) {
		t.Errorf("expected 3000.30, got %s", got)
	}
	if got := p.FundedPercent(); !got.Equal(decimal.NewFromInt(25)) {
		t.Errorf("expected 25%%, got %s", got)
	}
	if got := p.RemainingShares(); got != 6 {
		t.Errorf("expected 6 remaining, got %d", got)
	}
	if got := (&Project{}).FundedPercent(); !got.IsZero() {
		t.Errorf("expected zero progress for empty pool, got %s", got)
	}
}

func TestProjectFilter_Matches(t *testing.T) {
	minROI := decimal.NewFromInt(8)
	maxPrice := decimal.NewFromInt(500)

	p := &Project{
		Location:        "Nairobi, Kenya",
		PricePerShare:   decimal.NewFromInt(250),
		ExpectedROI:     decimal.RequireFromString("9.5"),
		AvailableShares: 100,
		SoldShares:      10,
		Status:          ProjectStatusActive,
	}

	tests := []struct {
		name   string
		filter ProjectFilter
		want   bool
	}{
		{name: "empty filter", filter: ProjectFilter{}, want: true},
		{name: "status match", filter: ProjectFilter{Status: ProjectStatusActive}, want: true},
		{name: "status mismatch", filter: ProjectFilter{Status: ProjectStatusFunded}, want: false},
		{name: "location case-insensitive", filter: ProjectFilter{Location: "kenya"}, want: true},
		{name: "location mismatch", filter: ProjectFilter{Location: "Lagos"}, want: false},
		{name: "min roi", filter: ProjectFilter{MinROI: &minROI}, want: true},
		{name: "max price", filter: ProjectFilter{MaxPricePerShare: &maxPrice}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(p); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	cheap := decimal.NewFromInt(100)
	if (ProjectFilter{MaxPricePerShare: &cheap}).Matches(p) {
		t.Fatal("expected price above maximum to be filtered out")
	}
}
