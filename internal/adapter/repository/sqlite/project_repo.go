package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

const projectColumns = `id, title, location, capacity_kw, price_per_share, available_shares,
	sold_shares, expected_roi, status, version, created_at, updated_at`

// ProjectRepository implements usecase.ProjectRepository.
type ProjectRepository struct {
	store *Store
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(store *Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// Create inserts a project inside tx.
func (r *ProjectRepository) Create(ctx context.Context, tx usecase.Transaction, project *domain.Project) error {
	q, err := txQuerier(tx)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Title,
		project.Location,
		project.CapacityKW.String(),
		project.PricePerShare.String(),
		project.AvailableShares,
		project.SoldShares,
		project.ExpectedROI.String(),
		string(project.Status),
		project.Version,
		formatTime(project.CreatedAt),
		formatTime(project.UpdatedAt),
	)
	return mapError(err)
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, mapError(err)
	}
	return project, nil
}

// List lists projects matching filter, newest first.
func (r *ProjectRepository) List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		clauses = append(clauses, `(CASE WHEN sold_shares >= available_shares THEN 'funded' ELSE status END) = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.Location != "" {
		clauses = append(clauses, `lower(location) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.MinROI != nil {
		clauses = append(clauses, `CAST(expected_roi AS REAL) >= ?`)
		args = append(args, filter.MinROI.InexactFloat64())
	}
	if filter.MaxPricePerShare != nil {
		clauses = append(clauses, `CAST(price_per_share AS REAL) <= ?`)
		args = append(args, filter.MaxPricePerShare.InexactFloat64())
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, mapError(rows.Err())
}

// ListIDsAfter pages project IDs by keyset.
func (r *ProjectRepository) ListIDsAfter(ctx context.Context, afterID string, limit int) ([]string, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT id FROM projects WHERE id > ? ORDER BY id LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err)
		}
		ids = append(ids, id)
	}
	return ids, mapError(rows.Err())
}

// CompareAndSwapSoldShares moves sold_shares from expected to next in one
// conditional UPDATE; zero affected rows means another writer got there first.
func (r *ProjectRepository) CompareAndSwapSoldShares(ctx context.Context, id string, expected, next int64, updatedAt time.Time) (bool, error) {
	res, err := r.store.db.ExecContext(ctx, `UPDATE projects
		SET sold_shares = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND sold_shares = ? AND ? <= available_shares`,
		next, formatTime(updatedAt), id, expected, next)
	if err != nil {
		return false, mapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err)
	}
	return affected == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p                            domain.Project
		capacity, price, roi, status string
		createdAt, updatedAt         string
	)
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Location,
		&capacity,
		&price,
		&p.AvailableShares,
		&p.SoldShares,
		&roi,
		&status,
		&p.Version,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.CapacityKW, err = decimal.NewFromString(capacity); err != nil {
		return nil, fmt.Errorf("parse capacity_kw: %w", err)
	}
	if p.PricePerShare, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price_per_share: %w", err)
	}
	if p.ExpectedROI, err = decimal.NewFromString(roi); err != nil {
		return nil, fmt.Errorf("parse expected_roi: %w", err)
	}
	p.Status = domain.ProjectStatus(status)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
