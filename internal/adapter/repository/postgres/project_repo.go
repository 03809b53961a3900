package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/postgres/generated"
	"github.com/iho/sharefund/internal/usecase"
)

// ProjectRepository implements usecase.ProjectRepository.
type ProjectRepository struct {
	queries *generated.Queries
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool DB) *ProjectRepository {
	return &ProjectRepository{queries: generated.New(pool)}
}

// Create inserts a project inside tx.
func (r *ProjectRepository) Create(ctx context.Context, tx usecase.Transaction, project *domain.Project) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return mapError(queries.CreateProject(ctx, generated.CreateProjectParams{
		ID:              project.ID,
		Title:           project.Title,
		Location:        project.Location,
		CapacityKw:      decimalToNumeric(project.CapacityKW),
		PricePerShare:   decimalToNumeric(project.PricePerShare),
		AvailableShares: project.AvailableShares,
		SoldShares:      project.SoldShares,
		ExpectedRoi:     decimalToNumeric(project.ExpectedROI),
		Status:          string(project.Status),
		Version:         project.Version,
		CreatedAt:       timeToPgTimestamptz(project.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(project.UpdatedAt),
	}))
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row, err := r.queries.GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}

		return nil, mapError(err)
	}

	return rowToProject(row), nil
}

// List lists projects matching filter, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error) {
	rows, err := r.queries.ListProjects(ctx, generated.ListProjectsParams{
		Status:           optionalText(string(filter.Status)),
		Location:         optionalText(filter.Location),
		MinRoi:           optionalNumeric(filter.MinROI),
		MaxPricePerShare: optionalNumeric(filter.MaxPricePerShare),
		Limit:            int32(filter.Limit),
		Offset:           int32(filter.Offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	projects := make([]*domain.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, rowToProject(row))
	}

	return projects, nil
}

// ListIDsAfter pages project IDs by keyset.
func (r *ProjectRepository) ListIDsAfter(ctx context.Context, afterID string, limit int) ([]string, error) {
	ids, err := r.queries.ListProjectIDsAfter(ctx, generated.ListProjectIDsAfterParams{
		AfterID: afterID,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return ids, nil
}

// CompareAndSwapSoldShares moves sold_shares from expected to next in one
// conditional UPDATE; zero affected rows means another writer got there first.
func (r *ProjectRepository) CompareAndSwapSoldShares(ctx context.Context, id string, expected, next int64, updatedAt time.Time) (bool, error) {
	affected, err := r.queries.CompareAndSwapSoldShares(ctx, generated.CompareAndSwapSoldSharesParams{
		ID:             id,
		ExpectedShares: expected,
		NextShares:     next,
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return false, mapError(err)
	}

	return affected == 1, nil
}

func rowToProject(row generated.Project) *domain.Project {
	return &domain.Project{
		ID:              row.ID,
		Title:           row.Title,
		Location:        row.Location,
		CapacityKW:      numericToDecimal(row.CapacityKw),
		PricePerShare:   numericToDecimal(row.PricePerShare),
		AvailableShares: row.AvailableShares,
		SoldShares:      row.SoldShares,
		ExpectedROI:     numericToDecimal(row.ExpectedRoi),
		Status:          domain.ProjectStatus(row.Status),
		Version:         row.Version,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
