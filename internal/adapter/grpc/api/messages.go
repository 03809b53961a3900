package api

import "google.golang.org/protobuf/types/known/timestamppb"

// Project is the wire form of a project. Decimals travel as strings.
type Project struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Location        string                 `json:"location"`
	CapacityKW      string                 `json:"capacity_kw"`
	PricePerShare   string                 `json:"price_per_share"`
	AvailableShares int64                  `json:"available_shares"`
	SoldShares      int64                  `json:"sold_shares"`
	RemainingShares int64                  `json:"remaining_shares"`
	ExpectedROI     string                 `json:"expected_roi"`
	Status          string                 `json:"status"`
	CreatedAt       *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt       *timestamppb.Timestamp `json:"updated_at"`
}

// Investment is the wire form of an investment.
type Investment struct {
	ID                   string                 `json:"id"`
	ProjectID            string                 `json:"project_id"`
	BuyerID              string                 `json:"buyer_id"`
	SharesPurchased      int64                  `json:"shares_purchased"`
	PricePerShare        string                 `json:"price_per_share"`
	AmountInvested       string                 `json:"amount_invested"`
	ExpectedAnnualReturn string                 `json:"expected_annual_return"`
	PaymentStatus        string                 `json:"payment_status"`
	CreatedAt            *timestamppb.Timestamp `json:"created_at"`
}

type PurchaseRequest struct {
	ProjectID string `json:"project_id"`
	BuyerID   string `json:"buyer_id,omitempty"`
	Shares    int64  `json:"shares"`
}

// PurchaseResponse reports completed or partial_failure. Other outcomes are
// returned as status errors.
type PurchaseResponse struct {
	Status     string      `json:"status"`
	Investment *Investment `json:"investment"`
	Message    string      `json:"message,omitempty"`
}

type GetProjectRequest struct {
	ID string `json:"id"`
}

type GetProjectResponse struct {
	Project *Project `json:"project"`
}

type GetInvestmentRequest struct {
	ID string `json:"id"`
}

type GetInvestmentResponse struct {
	Investment *Investment `json:"investment"`
}

type ReconcileProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type ReconcileProjectResponse struct {
	ProjectID        string                 `json:"project_id"`
	LedgerSoldShares int64                  `json:"ledger_sold_shares"`
	RecordedShares   int64                  `json:"recorded_shares"`
	Difference       int64                  `json:"difference"`
	IsReconciled     bool                   `json:"is_reconciled"`
	LastChecked      *timestamppb.Timestamp `json:"last_checked"`
}
