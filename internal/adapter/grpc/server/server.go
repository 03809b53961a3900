package server

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/iho/sharefund/internal/adapter/grpc/api"
	"github.com/iho/sharefund/internal/adapter/grpc/converter"
	grpcerrors "github.com/iho/sharefund/internal/adapter/grpc/errors"
	"github.com/iho/sharefund/internal/adapter/grpc/middleware"
	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

// ProjectReader loads projects.
type ProjectReader interface {
	GetProject(ctx context.Context, id string) (*domain.Project, error)
}

// InvestmentService buys shares and loads investments.
type InvestmentService interface {
	Purchase(ctx context.Context, in usecase.PurchaseInput) (*domain.Investment, error)
	GetInvestment(ctx context.Context, id string) (*domain.Investment, error)
}

// Reconciler reconciles a single project.
type Reconciler interface {
	ReconcileProject(ctx context.Context, projectID string) (*usecase.ReconciliationResult, error)
}

// ShareFundServer implements api.ShareFundServer on top of the use cases.
type ShareFundServer struct {
	projects    ProjectReader
	investments InvestmentService
	reconciler  Reconciler
}

// NewShareFundServer creates a new ShareFundServer.
func NewShareFundServer(projects ProjectReader, investments InvestmentService, reconciler Reconciler) *ShareFundServer {
	return &ShareFundServer{
		projects:    projects,
		investments: investments,
		reconciler:  reconciler,
	}
}

// Purchase buys shares. A partial failure is returned as a normal response
// with status partial_failure so the caller learns which investment is pending.
func (s *ShareFundServer) Purchase(ctx context.Context, req *api.PurchaseRequest) (*api.PurchaseResponse, error) {
	input := converter.PurchaseInput(req)
	input.BuyerID = strings.TrimSpace(input.BuyerID)

	if user, ok := domain.UserFromContext(ctx); ok {
		if input.BuyerID == "" {
			input.BuyerID = user.ID
		}
		if user.Role != domain.RoleAdmin && input.BuyerID != user.ID {
			return nil, grpcerrors.MapDomainError(domain.ErrInsufficientRole)
		}
	}

	investment, err := s.investments.Purchase(ctx, input)
	if err != nil {
		var partial *domain.PartialFailureError
		if errors.As(err, &partial) {
			return &api.PurchaseResponse{
				Status:     string(domain.PurchasePartialFailure),
				Investment: converter.InvestmentToAPI(partial.Investment),
				Message:    "shares are reserved; the investment record is pending reconciliation",
			}, nil
		}
		return nil, grpcerrors.MapDomainError(err)
	}

	return &api.PurchaseResponse{
		Status:     string(domain.PurchaseCompleted),
		Investment: converter.InvestmentToAPI(investment),
	}, nil
}

// GetProject retrieves a project by ID
func (s *ShareFundServer) GetProject(ctx context.Context, req *api.GetProjectRequest) (*api.GetProjectResponse, error) {
	project, err := s.projects.GetProject(ctx, req.ID)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return &api.GetProjectResponse{Project: converter.ProjectToAPI(project)}, nil
}

// GetInvestment retrieves an investment by ID
func (s *ShareFundServer) GetInvestment(ctx context.Context, req *api.GetInvestmentRequest) (*api.GetInvestmentResponse, error) {
	investment, err := s.investments.GetInvestment(ctx, req.ID)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}
	if user, ok := domain.UserFromContext(ctx); ok && user.Role != domain.RoleAdmin && user.ID != investment.BuyerID {
		return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	}

	return &api.GetInvestmentResponse{Investment: converter.InvestmentToAPI(investment)}, nil
}

// ReconcileProject compares the ledger with the recorded investments of a project.
func (s *ShareFundServer) ReconcileProject(ctx context.Context, req *api.ReconcileProjectRequest) (*api.ReconcileProjectResponse, error) {
	result, err := s.reconciler.ReconcileProject(ctx, req.ProjectID)
	if err != nil {
		return nil, grpcerrors.MapDomainError(err)
	}

	return converter.ReconciliationToAPI(result), nil
}

// Config assembles a gRPC server.
type Config struct {
	Service *ShareFundServer
	// TokenVerifier enables authentication; nil leaves the service open.
	TokenVerifier    middleware.TokenVerifier
	IdempotencyStore usecase.IdempotencyStore
	Logger           zerolog.Logger
}

// New builds a grpc.Server exposing the share fund service and the standard
// health service.
func New(cfg Config) (*grpc.Server, *health.Server) {
	var interceptors []grpc.UnaryServerInterceptor
	if cfg.TokenVerifier != nil {
		interceptors = append(interceptors,
			middleware.AuthInterceptor(cfg.TokenVerifier),
			middleware.RequireRoleInterceptor(domain.RoleAdmin, api.MethodReconcileProject),
		)
	}
	if cfg.IdempotencyStore != nil {
		interceptors = append(interceptors,
			middleware.IdempotencyInterceptor(cfg.IdempotencyStore, cfg.Logger, api.MethodPurchase))
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	api.RegisterShareFundServer(srv, cfg.Service)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthServer)

	return srv, healthServer
}
