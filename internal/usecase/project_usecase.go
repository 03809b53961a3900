package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
)

// CreateProjectInput describes a new project offered for funding.
type CreateProjectInput struct {
	Title           string
	Location        string
	CapacityKW      decimal.Decimal
	PricePerShare   decimal.Decimal
	AvailableShares int64
	ExpectedROI     decimal.Decimal
	Status          domain.ProjectStatus
}

type ProjectUseCase struct {
	txManager   TransactionManager
	projectRepo ProjectRepository
	auditRepo   AuditRepository
	cache       ProjectCache
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

func NewProjectUseCase(
	txManager TransactionManager,
	projectRepo ProjectRepository,
	auditRepo AuditRepository,
	cache ProjectCache,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ProjectUseCase {
	return &ProjectUseCase{
		txManager:   txManager,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		idGen:       idGen,
		logger:      logger.With().Str("component", "project").Logger(),
		metrics:     metrics,
	}
}

// CreateProject stores a new project with nothing sold.
func (uc *ProjectUseCase) CreateProject(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	status := in.Status
	if status == "" {
		status = domain.ProjectStatusActive
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:              uc.idGen.Generate(),
		Title:           strings.TrimSpace(in.Title),
		Location:        strings.TrimSpace(in.Location),
		CapacityKW:      in.CapacityKW,
		PricePerShare:   in.PricePerShare,
		AvailableShares: in.AvailableShares,
		SoldShares:      0,
		ExpectedROI:     in.ExpectedROI,
		Status:          status,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := domain.ValidateNewProject(project); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.projectRepo.Create(txCtx, tx, project); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		userID := systemActor
		if user, ok := domain.UserFromContext(ctx); ok {
			userID = user.ID
		}

		auditLog := &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       userID,
			Action:       string(domain.AuditActionProjectCreate),
			ResourceType: domain.ResourceTypeProject,
			ResourceID:   project.ID,
			AfterState:   domain.MarshalState(project),
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		}
		if err := uc.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ProjectsCreated.Inc()
	}

	return project, nil
}

// GetProject returns a display snapshot. It may lag the ledger by up to the
// cache TTL and must never feed a reservation decision.
func (uc *ProjectUseCase) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, id)
		if err != nil {
			uc.logger.Warn().Err(err).Str("project_id", id).Msg("project cache read failed")
		}
		if cached != nil {
			uc.countCache("hit")
			return cached, nil
		}
		uc.countCache("miss")
	}

	project, err := uc.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, project); err != nil {
			uc.logger.Warn().Err(err).Str("project_id", id).Msg("project cache write failed")
		}
	}

	return project, nil
}

// ListProjects returns projects matching filter, newest first.
func (uc *ProjectUseCase) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error) {
	if filter.Status != "" && filter.Status != domain.ProjectStatusFunded && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("status", "must be active, inactive or funded")
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.projectRepo.List(ctx, filter)
}

// ProjectReturns projects the income of buying shares of a project for years.
func (uc *ProjectUseCase) ProjectReturns(ctx context.Context, id string, shares int64, years int) (*domain.ReturnProjection, error) {
	if err := domain.ValidateShares(shares); err != nil {
		return nil, err
	}

	project, err := uc.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.ProjectReturns(project.CostOf(shares), project.ExpectedROI, years)
}

func (uc *ProjectUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.ProjectCache.WithLabelValues(result).Inc()
	}
}
