package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

// ErrorResponse represents an error in API responses.
// Code is the stable discriminator clients switch on.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code"`
	Available *int64 `json:"available,omitempty"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Location        string          `json:"location"`
	CapacityKW      decimal.Decimal `json:"capacity_kw"`
	PricePerShare   decimal.Decimal `json:"price_per_share"`
	AvailableShares int64           `json:"available_shares"`
	SoldShares      int64           `json:"sold_shares"`
	RemainingShares int64           `json:"remaining_shares"`
	FundedPercent   decimal.Decimal `json:"funded_percent"`
	ExpectedROI     decimal.Decimal `json:"expected_roi"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProjectFromDomain converts domain project to response.
func ProjectFromDomain(p *domain.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:              p.ID,
		Title:           p.Title,
		Location:        p.Location,
		CapacityKW:      p.CapacityKW,
		PricePerShare:   p.PricePerShare,
		AvailableShares: p.AvailableShares,
		SoldShares:      p.SoldShares,
		RemainingShares: p.RemainingShares(),
		FundedPercent:   p.FundedPercent(),
		ExpectedROI:     p.ExpectedROI,
		Status:          string(p.EffectiveStatus()),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ProjectsFromDomain converts domain projects to responses.
func ProjectsFromDomain(projects []*domain.Project) []*ProjectResponse {
	result := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		result[i] = ProjectFromDomain(p)
	}
	return result
}

// InvestmentResponse represents an investment in API responses.
type InvestmentResponse struct {
	ID                   string          `json:"id"`
	ProjectID            string          `json:"project_id"`
	BuyerID              string          `json:"buyer_id"`
	SharesPurchased      int64           `json:"shares_purchased"`
	PricePerShare        decimal.Decimal `json:"price_per_share"`
	AmountInvested       decimal.Decimal `json:"amount_invested"`
	ExpectedAnnualReturn decimal.Decimal `json:"expected_annual_return"`
	PaymentStatus        string          `json:"payment_status"`
	CreatedAt            time.Time       `json:"created_at"`
}

// InvestmentFromDomain converts domain investment to response.
func InvestmentFromDomain(i *domain.Investment) *InvestmentResponse {
	return &InvestmentResponse{
		ID:                   i.ID,
		ProjectID:            i.ProjectID,
		BuyerID:              i.BuyerID,
		SharesPurchased:      i.SharesPurchased,
		PricePerShare:        i.PricePerShare,
		AmountInvested:       i.AmountInvested,
		ExpectedAnnualReturn: i.ExpectedAnnualReturn,
		PaymentStatus:        string(i.PaymentStatus),
		CreatedAt:            i.CreatedAt,
	}
}

// InvestmentsFromDomain converts domain investments to responses.
func InvestmentsFromDomain(investments []*domain.Investment) []*InvestmentResponse {
	result := make([]*InvestmentResponse, len(investments))
	for i, inv := range investments {
		result[i] = InvestmentFromDomain(inv)
	}
	return result
}

// PurchaseResponse is the outcome of a purchase. Status is completed or
// partial_failure; a partial failure still carries the investment that was
// meant to be recorded.
type PurchaseResponse struct {
	Status     string              `json:"status"`
	Investment *InvestmentResponse `json:"investment"`
	Code       string              `json:"code,omitempty"`
	Message    string              `json:"message,omitempty"`
}

// PortfolioResponse summarises a buyer's holdings.
type PortfolioResponse struct {
	BuyerID              string          `json:"buyer_id"`
	InvestmentCount      int             `json:"investment_count"`
	TotalShares          int64           `json:"total_shares"`
	TotalInvested        decimal.Decimal `json:"total_invested"`
	ExpectedAnnualReturn decimal.Decimal `json:"expected_annual_return"`
	AverageROI           decimal.Decimal `json:"average_roi"`
}

// PortfolioFromDomain converts a portfolio summary to response.
func PortfolioFromDomain(s *domain.PortfolioSummary) *PortfolioResponse {
	return &PortfolioResponse{
		BuyerID:              s.BuyerID,
		InvestmentCount:      s.InvestmentCount,
		TotalShares:          s.TotalShares,
		TotalInvested:        s.TotalInvested,
		ExpectedAnnualReturn: s.ExpectedAnnualReturn.Round(2),
		AverageROI:           s.AverageROI.Round(2),
	}
}

// ReturnsResponse is a rounded return projection.
type ReturnsResponse struct {
	ProjectID   string          `json:"project_id"`
	Shares      int64           `json:"shares"`
	Principal   decimal.Decimal `json:"principal"`
	ROI         decimal.Decimal `json:"roi"`
	Years       int             `json:"years"`
	Yearly      decimal.Decimal `json:"yearly"`
	Monthly     decimal.Decimal `json:"monthly"`
	Total       decimal.Decimal `json:"total"`
	TotalPayout decimal.Decimal `json:"total_payout"`
}

// ReturnsFromDomain converts a projection to response, rounded to cents.
func ReturnsFromDomain(projectID string, shares int64, p *domain.ReturnProjection) *ReturnsResponse {
	return &ReturnsResponse{
		ProjectID:   projectID,
		Shares:      shares,
		Principal:   p.Principal.Round(2),
		ROI:         p.ROI,
		Years:       p.Years,
		Yearly:      p.Yearly.Round(2),
		Monthly:     p.Monthly.Round(2),
		Total:       p.Total.Round(2),
		TotalPayout: p.TotalPayout.Round(2),
	}
}

// ReconciliationResponse represents one project's reconciliation.
type ReconciliationResponse struct {
	ProjectID        string    `json:"project_id"`
	LedgerSoldShares int64     `json:"ledger_sold_shares"`
	RecordedShares   int64     `json:"recorded_shares"`
	Difference       int64     `json:"difference"`
	IsReconciled     bool      `json:"is_reconciled"`
	LastChecked      time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		ProjectID:        r.ProjectID,
		LedgerSoldShares: r.LedgerSoldShares,
		RecordedShares:   r.RecordedShares,
		Difference:       r.Difference,
		IsReconciled:     r.IsReconciled,
		LastChecked:      r.LastChecked,
	}
}

// ReconciliationReportResponse represents a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalProjects      int                       `json:"total_projects"`
	ReconciledProjects int                       `json:"reconciled_projects"`
	UnrecordedShares   int64                     `json:"unrecorded_shares"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReportFromUseCase converts a reconciliation report to response.
func ReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		TotalProjects:      r.TotalProjects,
		ReconciledProjects: r.ReconciledProjects,
		UnrecordedShares:   r.UnrecordedShares,
		Discrepancies:      make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = ReconciliationFromUseCase(d)
	}
	return resp
}
