package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

type stubProjectService struct {
	createFn  func(ctx context.Context, in usecase.CreateProjectInput) (*domain.Project, error)
	getFn     func(ctx context.Context, id string) (*domain.Project, error)
	listFn    func(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error)
	returnsFn func(ctx context.Context, id string, shares int64, years int) (*domain.ReturnProjection, error)
}

func (s *stubProjectService) CreateProject(ctx context.Context, in usecase.CreateProjectInput) (*domain.Project, error) {
	return s.createFn(ctx, in)
}

func (s *stubProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	return s.getFn(ctx, id)
}

func (s *stubProjectService) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error) {
	return s.listFn(ctx, filter)
}

func (s *stubProjectService) ProjectReturns(ctx context.Context, id string, shares int64, years int) (*domain.ReturnProjection, error) {
	return s.returnsFn(ctx, id, shares, years)
}

type stubInvestmentService struct {
	purchaseFn      func(ctx context.Context, in usecase.PurchaseInput) (*domain.Investment, error)
	getFn           func(ctx context.Context, id string) (*domain.Investment, error)
	listByBuyerFn   func(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error)
	listByProjectFn func(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error)
	portfolioFn     func(ctx context.Context, buyerID string) (*domain.PortfolioSummary, error)
}

func (s *stubInvestmentService) Purchase(ctx context.Context, in usecase.PurchaseInput) (*domain.Investment, error) {
	return s.purchaseFn(ctx, in)
}

func (s *stubInvestmentService) GetInvestment(ctx context.Context, id string) (*domain.Investment, error) {
	return s.getFn(ctx, id)
}

func (s *stubInvestmentService) ListInvestmentsByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*domain.Investment, error) {
	return s.listByBuyerFn(ctx, buyerID, limit, offset)
}

func (s *stubInvestmentService) ListInvestmentsByProject(ctx context.Context, projectID string, limit, offset int) ([]*domain.Investment, error) {
	return s.listByProjectFn(ctx, projectID, limit, offset)
}

func (s *stubInvestmentService) PortfolioSummary(ctx context.Context, buyerID string) (*domain.PortfolioSummary, error) {
	return s.portfolioFn(ctx, buyerID)
}

type stubReconciliationService struct {
	projectFn func(ctx context.Context, projectID string) (*usecase.ReconciliationResult, error)
	reportFn  func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *stubReconciliationService) ReconcileProject(ctx context.Context, projectID string) (*usecase.ReconciliationResult, error) {
	return s.projectFn(ctx, projectID)
}

func (s *stubReconciliationService) GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.reportFn(ctx)
}

type stubInbox struct {
	recentFn func(ctx context.Context, buyerID string, limit int64) ([]domain.Notification, error)
}

func (s *stubInbox) Recent(ctx context.Context, buyerID string, limit int64) ([]domain.Notification, error) {
	return s.recentFn(ctx, buyerID, limit)
}

// withURLParam attaches a chi route parameter to req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// asUser attaches an authenticated user to req, keeping route parameters.
func asUser(req *http.Request, user *domain.User) *http.Request {
	return req.WithContext(domain.ContextWithUser(req.Context(), user))
}
