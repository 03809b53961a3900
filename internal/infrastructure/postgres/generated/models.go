package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type AuditLog struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	RequestID    string             `json:"request_id"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type Investment struct {
	ID                   string             `json:"id"`
	ProjectID            string             `json:"project_id"`
	BuyerID              string             `json:"buyer_id"`
	SharesPurchased      int64              `json:"shares_purchased"`
	PricePerShare        pgtype.Numeric     `json:"price_per_share"`
	AmountInvested       pgtype.Numeric     `json:"amount_invested"`
	ExpectedAnnualReturn pgtype.Numeric     `json:"expected_annual_return"`
	PaymentStatus        string             `json:"payment_status"`
	CreatedAt            pgtype.Timestamptz `json:"created_at"`
}

type Project struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Location        string             `json:"location"`
	CapacityKw      pgtype.Numeric     `json:"capacity_kw"`
	PricePerShare   pgtype.Numeric     `json:"price_per_share"`
	AvailableShares int64              `json:"available_shares"`
	SoldShares      int64              `json:"sold_shares"`
	ExpectedRoi     pgtype.Numeric     `json:"expected_roi"`
	Status          string             `json:"status"`
	Version         int64              `json:"version"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}
