package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks the external payment attached to an investment.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusPending, PaymentStatusFailed:
		return true
	}
	return false
}

// Investment is the immutable record of one successful share purchase.
type Investment struct {
	ID                   string
	ProjectID            string
	BuyerID              string
	SharesPurchased      int64
	PricePerShare        decimal.Decimal
	AmountInvested       decimal.Decimal
	ExpectedAnnualReturn decimal.Decimal
	PaymentStatus        PaymentStatus
	CreatedAt            time.Time
}

// Validate checks the record before it is persisted.
func (i *Investment) Validate() error {
	if i.SharesPurchased < 1 {
		return NewValidationError("shares_purchased", "must be at least 1")
	}
	if !i.PricePerShare.IsPositive() {
		return NewValidationError("price_per_share", "must be positive")
	}
	if !i.AmountInvested.Equal(i.PricePerShare.Mul(decimal.NewFromInt(i.SharesPurchased))) {
		return NewValidationError("amount_invested", "does not match shares times price")
	}
	if !i.PaymentStatus.IsValid() {
		return NewValidationError("payment_status", "unknown status")
	}
	return nil
}

// Reservation is the outcome of a successful ledger reservation.
type Reservation struct {
	ProjectID       string
	Requested       int64
	SoldShares      int64
	AvailableShares int64
	Version         int64
	ReservedAt      time.Time
}

// Remaining returns the shares left in the pool right after the reservation.
func (r *Reservation) Remaining() int64 {
	return r.AvailableShares - r.SoldShares
}

// PortfolioSummary aggregates a buyer's investments.
type PortfolioSummary struct {
	BuyerID              string
	InvestmentCount      int
	TotalShares          int64
	TotalInvested        decimal.Decimal
	ExpectedAnnualReturn decimal.Decimal
	AverageROI           decimal.Decimal
}
