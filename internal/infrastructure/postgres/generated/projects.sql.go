package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const compareAndSwapSoldShares = `-- name: CompareAndSwapSoldShares :execrows
UPDATE projects
SET sold_shares = $3, version = version + 1, updated_at = $4
WHERE id = $1 AND sold_shares = $2 AND $3 <= available_shares
`

type CompareAndSwapSoldSharesParams struct {
	ID             string             `json:"id"`
	ExpectedShares int64              `json:"expected_shares"`
	NextShares     int64              `json:"next_shares"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CompareAndSwapSoldShares(ctx context.Context, arg CompareAndSwapSoldSharesParams) (int64, error) {
	result, err := q.db.Exec(ctx, compareAndSwapSoldShares,
		arg.ID,
		arg.ExpectedShares,
		arg.NextShares,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createProject = `-- name: CreateProject :exec
INSERT INTO projects (id, title, location, capacity_kw, price_per_share, available_shares, sold_shares, expected_roi, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type CreateProjectParams struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Location        string             `json:"location"`
	CapacityKw      pgtype.Numeric     `json:"capacity_kw"`
	PricePerShare   pgtype.Numeric     `json:"price_per_share"`
	AvailableShares int64              `json:"available_shares"`
	SoldShares      int64              `json:"sold_shares"`
	ExpectedRoi     pgtype.Numeric     `json:"expected_roi"`
	Status          string             `json:"status"`
	Version         int64              `json:"version"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) error {
	_, err := q.db.Exec(ctx, createProject,
		arg.ID,
		arg.Title,
		arg.Location,
		arg.CapacityKw,
		arg.PricePerShare,
		arg.AvailableShares,
		arg.SoldShares,
		arg.ExpectedRoi,
		arg.Status,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getProjectByID = `-- name: GetProjectByID :one
SELECT id, title, location, capacity_kw, price_per_share, available_shares, sold_shares, expected_roi, status, version, created_at, updated_at FROM projects WHERE id = $1
`

func (q *Queries) GetProjectByID(ctx context.Context, id string) (Project, error) {
	row := q.db.QueryRow(ctx, getProjectByID, id)
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Location,
		&i.CapacityKw,
		&i.PricePerShare,
		&i.AvailableShares,
		&i.SoldShares,
		&i.ExpectedRoi,
		&i.Status,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listProjectIDsAfter = `-- name: ListProjectIDsAfter :many
SELECT id FROM projects
WHERE id > $1
ORDER BY id
LIMIT $2
`

type ListProjectIDsAfterParams struct {
	AfterID string `json:"after_id"`
	Limit   int32  `json:"limit"`
}

func (q *Queries) ListProjectIDsAfter(ctx context.Context, arg ListProjectIDsAfterParams) ([]string, error) {
	rows, err := q.db.Query(ctx, listProjectIDsAfter, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProjects = `-- name: ListProjects :many
SELECT id, title, location, capacity_kw, price_per_share, available_shares, sold_shares, expected_roi, status, version, created_at, updated_at FROM projects
WHERE ($1::text IS NULL OR (CASE WHEN sold_shares >= available_shares THEN 'funded' ELSE status END) = $1::text)
  AND ($2::text IS NULL OR location ILIKE '%' || $2::text || '%')
  AND ($3::numeric IS NULL OR expected_roi >= $3::numeric)
  AND ($4::numeric IS NULL OR price_per_share <= $4::numeric)
ORDER BY created_at DESC, id
LIMIT $5 OFFSET $6
`

type ListProjectsParams struct {
	Status           pgtype.Text    `json:"status"`
	Location         pgtype.Text    `json:"location"`
	MinRoi           pgtype.Numeric `json:"min_roi"`
	MaxPricePerShare pgtype.Numeric `json:"max_price_per_share"`
	Limit            int32          `json:"limit"`
	Offset           int32          `json:"offset"`
}

func (q *Queries) ListProjects(ctx context.Context, arg ListProjectsParams) ([]Project, error) {
	rows, err := q.db.Query(ctx, listProjects,
		arg.Status,
		arg.Location,
		arg.MinRoi,
		arg.MaxPricePerShare,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Project
	for rows.Next() {
		var i Project
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Location,
			&i.CapacityKw,
			&i.PricePerShare,
			&i.AvailableShares,
			&i.SoldShares,
			&i.ExpectedRoi,
			&i.Status,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
