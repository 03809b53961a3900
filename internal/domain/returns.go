package domain

import "github.com/shopspring/decimal"

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// ReturnProjection estimates the income of a principal at a fixed annual ROI.
// Values are not rounded; callers round for display.
type ReturnProjection struct {
	Principal   decimal.Decimal
	ROI         decimal.Decimal
	Years       int
	Yearly      decimal.Decimal
	Monthly     decimal.Decimal
	Total       decimal.Decimal
	TotalPayout decimal.Decimal
}

// ProjectReturns computes the return projection for principal at roi percent per year.
func ProjectReturns(principal, roi decimal.Decimal, years int) (*ReturnProjection, error) {
	if principal.IsNegative() {
		return nil, NewValidationError("principal", "must not be negative")
	}
	if roi.IsNegative() {
		return nil, NewValidationError("roi", "must not be negative")
	}
	if years < 1 || years > MaxReturnHorizonYears {
		return nil, NewValidationError("years", "must be between 1 and 50")
	}

	yearly := AnnualReturn(principal, roi)
	total := yearly.Mul(decimal.NewFromInt(int64(years)))
	return &ReturnProjection{
		Principal:   principal,
		ROI:         roi,
		Years:       years,
		Yearly:      yearly,
		Monthly:     yearly.Div(monthsInYear),
		Total:       total,
		TotalPayout: principal.Add(total),
	}, nil
}

// AnnualReturn returns principal * roi / 100.
func AnnualReturn(principal, roi decimal.Decimal) decimal.Decimal {
	return principal.Mul(roi).Div(hundred)
}
