package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/sharefund/internal/adapter/http/dto"
)

// ReconciliationHandler exposes ledger/record reconciliation to operators.
type ReconciliationHandler struct {
	service ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(service ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// Project handles GET /api/v1/projects/{id}/reconciliation.
func (h *ReconciliationHandler) Project(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ReconcileProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// Report handles GET /api/v1/reconciliation/report.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}
