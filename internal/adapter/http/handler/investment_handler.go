package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/sharefund/internal/adapter/http/dto"
	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/receipt"
)

const defaultQRSize = 256

// InvestmentHandler handles purchases and investment reads.
type InvestmentHandler struct {
	investments InvestmentService
	projects    ProjectService
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investments InvestmentService, projects ProjectService) *InvestmentHandler {
	return &InvestmentHandler{investments: investments, projects: projects}
}

// Purchase handles POST /api/v1/investments.
func (h *InvestmentHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req dto.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	input := req.ToUseCaseInput()
	if user, ok := domain.UserFromContext(r.Context()); ok && input.BuyerID == "" {
		input.BuyerID = user.ID
	}
	if err := authorizeBuyer(r.Context(), input.BuyerID); err != nil {
		writeDomainError(w, err)
		return
	}

	investment, err := h.investments.Purchase(r.Context(), input)
	if err != nil {
		var partial *domain.PartialFailureError
		if errors.As(err, &partial) {
			writeJSON(w, http.StatusAccepted, dto.PurchaseResponse{
				Status:     string(domain.PurchasePartialFailure),
				Investment: dto.InvestmentFromDomain(partial.Investment),
				Code:       CodePartialFailure,
				Message:    "shares are reserved; the investment record is pending reconciliation",
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PurchaseResponse{
		Status:     string(domain.PurchaseCompleted),
		Investment: dto.InvestmentFromDomain(investment),
	})
}

// Get handles GET /api/v1/investments/{id}.
func (h *InvestmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	investment, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentFromDomain(investment))
}

// Receipt handles GET /api/v1/investments/{id}/receipt.png?size=.
func (h *InvestmentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	investment, ok := h.load(w, r)
	if !ok {
		return
	}

	size := parseIntQuery(r, "size", defaultQRSize)
	if size < 64 || size > 1024 {
		writeError(w, http.StatusBadRequest, CodeValidation, "size must be between 64 and 1024")
		return
	}

	png, err := receipt.QRCode(investment, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writePNG(w, png)
}

// Card handles GET /api/v1/investments/{id}/card.png?width=.
func (h *InvestmentHandler) Card(w http.ResponseWriter, r *http.Request) {
	investment, ok := h.load(w, r)
	if !ok {
		return
	}

	project, err := h.projects.GetProject(r.Context(), investment.ProjectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	width := parseIntQuery(r, "width", 0)
	if width < 0 {
		width = 0
	}

	png, err := receipt.Card(investment, project.Title, uint(width))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writePNG(w, png)
}

// ListByBuyer handles GET /api/v1/buyers/{id}/investments.
func (h *InvestmentHandler) ListByBuyer(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "id")
	if err := authorizeBuyer(r.Context(), buyerID); err != nil {
		writeDomainError(w, err)
		return
	}

	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))

	investments, err := h.investments.ListInvestmentsByBuyer(r.Context(), buyerID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentsFromDomain(investments))
}

// Portfolio handles GET /api/v1/buyers/{id}/portfolio.
func (h *InvestmentHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	buyerID := chi.URLParam(r, "id")
	if err := authorizeBuyer(r.Context(), buyerID); err != nil {
		writeDomainError(w, err)
		return
	}

	summary, err := h.investments.PortfolioSummary(r.Context(), buyerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfolioFromDomain(summary))
}

// load fetches the investment named in the path and checks ownership.
func (h *InvestmentHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Investment, bool) {
	investment, err := h.investments.GetInvestment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if err := authorizeBuyer(r.Context(), investment.BuyerID); err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return investment, true
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
