package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

// CreateProjectRequest represents a request to create a project.
type CreateProjectRequest struct {
	Title           string `json:"title"`
	Location        string `json:"location"`
	CapacityKW      string `json:"capacity_kw,omitempty"`
	PricePerShare   string `json:"price_per_share"`
	AvailableShares int64  `json:"available_shares"`
	ExpectedROI     string `json:"expected_roi,omitempty"`
	Status          string `json:"status,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateProjectRequest) ToUseCaseInput() (usecase.CreateProjectInput, error) {
	price, err := parseDecimal("price_per_share", r.PricePerShare, true)
	if err != nil {
		return usecase.CreateProjectInput{}, err
	}
	capacity, err := parseDecimal("capacity_kw", r.CapacityKW, false)
	if err != nil {
		return usecase.CreateProjectInput{}, err
	}
	roi, err := parseDecimal("expected_roi", r.ExpectedROI, false)
	if err != nil {
		return usecase.CreateProjectInput{}, err
	}

	return usecase.CreateProjectInput{
		Title:           r.Title,
		Location:        r.Location,
		CapacityKW:      capacity,
		PricePerShare:   price,
		AvailableShares: r.AvailableShares,
		ExpectedROI:     roi,
		Status:          domain.ProjectStatus(r.Status),
	}, nil
}

// PurchaseRequest represents a request to buy shares of a project.
// BuyerID defaults to the authenticated user.
type PurchaseRequest struct {
	ProjectID string `json:"project_id"`
	BuyerID   string `json:"buyer_id,omitempty"`
	Shares    int64  `json:"shares"`
}

// ToUseCaseInput converts to use case input.
func (r *PurchaseRequest) ToUseCaseInput() usecase.PurchaseInput {
	return usecase.PurchaseInput{
		BuyerID:   strings.TrimSpace(r.BuyerID),
		ProjectID: strings.TrimSpace(r.ProjectID),
		Shares:    r.Shares,
	}
}

func parseDecimal(field, value string, required bool) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return decimal.Zero, domain.NewValidationError(field, "is required")
		}
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, fmt.Sprintf("is not a decimal: %q", value))
	}
	return d, nil
}
