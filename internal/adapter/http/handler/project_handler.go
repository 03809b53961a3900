package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/adapter/http/dto"
	"github.com/iho/sharefund/internal/domain"
)

const defaultReturnYears = 1

// ProjectHandler handles project HTTP requests.
type ProjectHandler struct {
	projects    ProjectService
	investments InvestmentService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projects ProjectService, investments InvestmentService) *ProjectHandler {
	return &ProjectHandler{projects: projects, investments: investments}
}

// Create handles POST /api/v1/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	project, err := h.projects.CreateProject(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProjectFromDomain(project))
}

// Get handles GET /api/v1/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectFromDomain(project))
}

// List handles GET /api/v1/projects.
// Supported filters: status, location, min_roi, max_price, limit, offset.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ProjectFilter{
		Status:   domain.ProjectStatus(strings.ToLower(q.Get("status"))),
		Location: strings.TrimSpace(q.Get("location")),
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	}

	var err error
	if filter.MinROI, err = parseDecimalQuery(r, "min_roi"); err != nil {
		writeDomainError(w, err)
		return
	}
	if filter.MaxPricePerShare, err = parseDecimalQuery(r, "max_price"); err != nil {
		writeDomainError(w, err)
		return
	}

	projects, err := h.projects.ListProjects(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectsFromDomain(projects))
}

// Returns handles GET /api/v1/projects/{id}/returns?shares=&years=.
func (h *ProjectHandler) Returns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	shares := int64(parseIntQuery(r, "shares", 1))
	years := parseIntQuery(r, "years", defaultReturnYears)

	projection, err := h.projects.ProjectReturns(r.Context(), id, shares, years)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReturnsFromDomain(id, shares, projection))
}

// Investments handles GET /api/v1/projects/{id}/investments.
func (h *ProjectHandler) Investments(w http.ResponseWriter, r *http.Request) {
	limit, offset := domain.ValidatePagination(parseIntQuery(r, "limit", 50), parseIntQuery(r, "offset", 0))

	investments, err := h.investments.ListInvestmentsByProject(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvestmentsFromDomain(investments))
}

func parseDecimalQuery(r *http.Request, key string) (*decimal.Decimal, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return nil, domain.NewValidationError(key, "is not a decimal")
	}
	return &d, nil
}
