package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createInvestment = `-- name: CreateInvestment :exec
INSERT INTO investments (id, project_id, buyer_id, shares_purchased, price_per_share, amount_invested, expected_annual_return, payment_status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateInvestmentParams struct {
	ID                   string             `json:"id"`
	ProjectID            string             `json:"project_id"`
	BuyerID              string             `json:"buyer_id"`
	SharesPurchased      int64              `json:"shares_purchased"`
	PricePerShare        pgtype.Numeric     `json:"price_per_share"`
	AmountInvested       pgtype.Numeric     `json:"amount_invested"`
	ExpectedAnnualReturn pgtype.Numeric     `json:"expected_annual_return"`
	PaymentStatus        string             `json:"payment_status"`
	CreatedAt            pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateInvestment(ctx context.Context, arg CreateInvestmentParams) error {
	_, err := q.db.Exec(ctx, createInvestment,
		arg.ID,
		arg.ProjectID,
		arg.BuyerID,
		arg.SharesPurchased,
		arg.PricePerShare,
		arg.AmountInvested,
		arg.ExpectedAnnualReturn,
		arg.PaymentStatus,
		arg.CreatedAt,
	)
	return err
}

const getInvestmentByID = `-- name: GetInvestmentByID :one
SELECT id, project_id, buyer_id, shares_purchased, price_per_share, amount_invested, expected_annual_return, payment_status, created_at FROM investments WHERE id = $1
`

func (q *Queries) GetInvestmentByID(ctx context.Context, id string) (Investment, error) {
	row := q.db.QueryRow(ctx, getInvestmentByID, id)
	var i Investment
	err := row.Scan(
		&i.ID,
		&i.ProjectID,
		&i.BuyerID,
		&i.SharesPurchased,
		&i.PricePerShare,
		&i.AmountInvested,
		&i.ExpectedAnnualReturn,
		&i.PaymentStatus,
		&i.CreatedAt,
	)
	return i, err
}

const listInvestmentsByBuyer = `-- name: ListInvestmentsByBuyer :many
SELECT id, project_id, buyer_id, shares_purchased, price_per_share, amount_invested, expected_annual_return, payment_status, created_at FROM investments
WHERE buyer_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

type ListInvestmentsByBuyerParams struct {
	BuyerID string `json:"buyer_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

func (q *Queries) ListInvestmentsByBuyer(ctx context.Context, arg ListInvestmentsByBuyerParams) ([]Investment, error) {
	rows, err := q.db.Query(ctx, listInvestmentsByBuyer, arg.BuyerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvestments(rows)
}

const listInvestmentsByProject = `-- name: ListInvestmentsByProject :many
SELECT id, project_id, buyer_id, shares_purchased, price_per_share, amount_invested, expected_annual_return, payment_status, created_at FROM investments
WHERE project_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3
`

type ListInvestmentsByProjectParams struct {
	ProjectID string `json:"project_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListInvestmentsByProject(ctx context.Context, arg ListInvestmentsByProjectParams) ([]Investment, error) {
	rows, err := q.db.Query(ctx, listInvestmentsByProject, arg.ProjectID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvestments(rows)
}

const sumSharesByProject = `-- name: SumSharesByProject :one
SELECT COALESCE(SUM(shares_purchased), 0)::bigint AS total_shares FROM investments WHERE project_id = $1
`

func (q *Queries) SumSharesByProject(ctx context.Context, projectID string) (int64, error) {
	row := q.db.QueryRow(ctx, sumSharesByProject, projectID)
	var totalShares int64
	err := row.Scan(&totalShares)
	return totalShares, err
}

type investmentRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanInvestments(rows investmentRows) ([]Investment, error) {
	var items []Investment
	for rows.Next() {
		var i Investment
		if err := rows.Scan(
			&i.ID,
			&i.ProjectID,
			&i.BuyerID,
			&i.SharesPurchased,
			&i.PricePerShare,
			&i.AmountInvested,
			&i.ExpectedAnnualReturn,
			&i.PaymentStatus,
			&i.CreatedAt,
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
