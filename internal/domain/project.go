package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the administrative state of a project.
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusInactive ProjectStatus = "inactive"
	// ProjectStatusFunded is never stored; it is derived from the share counts.
	ProjectStatusFunded ProjectStatus = "funded"
)

// IsValid reports whether s may be stored on a project.
func (s ProjectStatus) IsValid() bool {
	return s == ProjectStatusActive || s == ProjectStatusInactive
}

// Project is a solar installation whose funding pool is split into shares.
type Project struct {
	ID              string
	Title           string
	Location        string
	CapacityKW      decimal.Decimal
	PricePerShare   decimal.Decimal
	AvailableShares int64
	SoldShares      int64
	ExpectedROI     decimal.Decimal
	Status          ProjectStatus
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RemainingShares returns how many shares can still be reserved.
func (p *Project) RemainingShares() int64 {
	remaining := p.AvailableShares - p.SoldShares
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EffectiveStatus returns funded once the pool is exhausted, the stored status otherwise.
func (p *Project) EffectiveStatus() ProjectStatus {
	if p.SoldShares >= p.AvailableShares {
		return ProjectStatusFunded
	}
	return p.Status
}

// ValidateReservation checks whether requested shares fit into the remaining pool.
func (p *Project) ValidateReservation(requested int64) error {
	if requested < 1 {
		return NewValidationError("shares", "must be at least 1")
	}
	if p.SoldShares+requested > p.AvailableShares {
		return &SharesUnavailableError{
			ProjectID: p.ID,
			Requested: requested,
			Available: p.RemainingShares(),
		}
	}
	return nil
}

// CostOf returns the price of n shares at the current price per share.
func (p *Project) CostOf(shares int64) decimal.Decimal {
	return p.PricePerShare.Mul(decimal.NewFromInt(shares))
}

// FundedPercent is the display progress of the funding pool, 0-100.
func (p *Project) FundedPercent() decimal.Decimal {
	if p.AvailableShares <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(p.SoldShares).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(p.AvailableShares)).
		Round(2)
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Status           ProjectStatus
	Location         string
	MinROI           *decimal.Decimal
	MaxPricePerShare *decimal.Decimal
	Limit            int
	Offset           int
}

// Matches reports whether p passes every set criterion of f.
func (f ProjectFilter) Matches(p *Project) bool {
	if f.Status != "" && p.EffectiveStatus() != f.Status {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.MinROI != nil && p.ExpectedROI.LessThan(*f.MinROI) {
		return false
	}
	if f.MaxPricePerShare != nil && p.PricePerShare.GreaterThan(*f.MaxPricePerShare) {
		return false
	}
	return true
}
