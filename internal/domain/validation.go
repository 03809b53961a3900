package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxProjectTitleLength = 255
	MaxSharesPerPurchase  = 1_000_000
	MaxPricePerShare      = "1000000000" // 1 billion
	MaxReturnHorizonYears = 50
)

// ValidateShares validates a requested share count.
func ValidateShares(shares int64) error {
	if shares < 1 {
		return NewValidationError("shares", "must be at least 1")
	}
	if shares > MaxSharesPerPurchase {
		return NewValidationError("shares", "exceeds the per-purchase limit")
	}
	return nil
}

// ValidatePurchaseAmount guards against zero or negative totals: the cost of
// the requested shares must be at least the price of one share.
func ValidatePurchaseAmount(shares int64, pricePerShare decimal.Decimal) error {
	if !pricePerShare.IsPositive() {
		return NewValidationError("price_per_share", "must be positive")
	}
	if pricePerShare.Mul(decimal.NewFromInt(shares)).LessThan(pricePerShare) {
		return NewValidationError("shares", "purchase must cover at least one share")
	}
	return nil
}

// ValidateProjectPurchasable rejects purchases on inactive or funded projects.
func ValidateProjectPurchasable(p *Project) error {
	if status := p.EffectiveStatus(); status != ProjectStatusActive {
		return NewValidationError("project", "is "+string(status)+", not accepting purchases")
	}
	return nil
}

// ValidateBuyerID validates the acquiring account identifier.
func ValidateBuyerID(buyerID string) error {
	if strings.TrimSpace(buyerID) == "" {
		return NewValidationError("buyer_id", "is required")
	}
	return nil
}

// ValidateNewProject validates the fields of a project before creation.
func ValidateNewProject(p *Project) error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return NewValidationError("title", "is required")
	}
	if len(title) > MaxProjectTitleLength {
		return NewValidationError("title", "is too long")
	}
	if !p.PricePerShare.IsPositive() {
		return NewValidationError("price_per_share", "must be positive")
	}
	maxPrice, _ := decimal.NewFromString(MaxPricePerShare)
	if p.PricePerShare.GreaterThan(maxPrice) {
		return NewValidationError("price_per_share", "exceeds maximum allowed")
	}
	if p.AvailableShares < 1 {
		return NewValidationError("available_shares", "must be at least 1")
	}
	if p.SoldShares != 0 {
		return NewValidationError("sold_shares", "must start at zero")
	}
	if p.ExpectedROI.IsNegative() {
		return NewValidationError("expected_roi", "must not be negative")
	}
	if !p.Status.IsValid() {
		return NewValidationError("status", "must be active or inactive")
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
