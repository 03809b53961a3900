package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // investment.create, project.create
	ResourceType string
	ResourceID   string
	RequestID    string
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionProjectCreate    AuditAction = "project.create"
	AuditActionInvestmentCreate AuditAction = "investment.create"
)

// Resource types
const (
	ResourceTypeProject    = "project"
	ResourceTypeInvestment = "investment"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// NewInvestmentAudit builds the audit row written alongside an investment.
func NewInvestmentAudit(id string, inv *Investment, actorID string) *AuditLog {
	if actorID == "" {
		actorID = inv.BuyerID
	}
	return &AuditLog{
		ID:           id,
		UserID:       actorID,
		Action:       string(AuditActionInvestmentCreate),
		ResourceType: ResourceTypeInvestment,
		ResourceID:   inv.ID,
		AfterState: JSON{
			"project_id":       inv.ProjectID,
			"buyer_id":         inv.BuyerID,
			"shares_purchased": inv.SharesPurchased,
			"amount_invested":  inv.AmountInvested.String(),
			"price_per_share":  inv.PricePerShare.String(),
		},
		Status:    string(AuditStatusSuccess),
		CreatedAt: inv.CreatedAt,
	}
}
