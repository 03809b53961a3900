package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/sharefund/internal/domain"
)

const maxInboxSize = 50

// NotificationHandler serves a buyer's recent notifications.
type NotificationHandler struct {
	inbox NotificationInbox
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(inbox NotificationInbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List handles GET /api/v1/buyers/{id}/notifications?limit=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "id")
	if err := authorizeBuyer(r.Context(), buyerID); err != nil {
		writeDomainError(w, err)
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	if limit <= 0 || limit > maxInboxSize {
		limit = maxInboxSize
	}

	notifications, err := h.inbox.Recent(r.Context(), buyerID, int64(limit))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	writeJSON(w, http.StatusOK, notifications)
}
