package domain

import (
	"fmt"
	"time"
)

// Notification types
const (
	NotificationTypeInvestment = "investment"
)

// Notification is a best-effort message to a buyer. Delivery is at most once.
type Notification struct {
	Type      string         `json:"type"`
	BuyerID   string         `json:"buyer_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewInvestmentNotification announces a completed purchase to its buyer.
func NewInvestmentNotification(inv *Investment, projectTitle string) Notification {
	return Notification{
		Type:    NotificationTypeInvestment,
		BuyerID: inv.BuyerID,
		Title:   "Investment confirmed",
		Message: fmt.Sprintf("You bought %d shares of %s for %s.",
			inv.SharesPurchased, projectTitle, inv.AmountInvested.StringFixed(2)),
		Data: map[string]any{
			"investment_id": inv.ID,
			"project_id":    inv.ProjectID,
			"shares":        inv.SharesPurchased,
			"amount":        inv.AmountInvested.String(),
		},
		CreatedAt: inv.CreatedAt,
	}
}
