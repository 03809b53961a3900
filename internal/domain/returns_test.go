package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestProjectReturns(t *testing.T) {
	p, err := ProjectReturns(decimal.NewFromInt(5000), decimal.NewFromInt(12), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !p.Yearly.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected yearly 600, got %s", p.Yearly)
	}
	if !p.Monthly.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected monthly 50, got %s", p.Monthly)
	}
	if !p.Total.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("expected total 6000, got %s", p.Total)
	}
	if !p.TotalPayout.Equal(decimal.NewFromInt(11000)) {
		t.Errorf("expected payout 11000, got %s", p.TotalPayout)
	}
}

func TestProjectReturns_Invalid(t *testing.T) {
	cases := []struct {
		principal decimal.Decimal
		roi       decimal.Decimal
		years     int
	}{
		{decimal.NewFromInt(-1), decimal.NewFromInt(5), 1},
		{decimal.NewFromInt(100), decimal.NewFromInt(-5), 1},
		{decimal.NewFromInt(100), decimal.NewFromInt(5), 0},
		{decimal.NewFromInt(100), decimal.NewFromInt(5), MaxReturnHorizonYears + 1},
	}

	for _, c := range cases {
		if _, err := ProjectReturns(c.principal, c.roi, c.years); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", c, err)
		}
	}
}

func TestAnnualReturn(t *testing.T) {
	got := AnnualReturn(decimal.RequireFromString("3000.30"), decimal.RequireFromString("7.5"))
	if !got.Equal(decimal.RequireFromString("225.0225")) {
		t.Fatalf("expected 225.0225, got %s", got)
	}
}
