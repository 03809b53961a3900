package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// CreateTx inserts an audit log entry inside tx.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	q, err := txQuerier(tx)
	if err != nil {
		return err
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	var afterState sql.NullString
	if log.AfterState != nil {
		data, err := json.Marshal(log.AfterState)
		if err != nil {
			return err
		}
		afterState = sql.NullString{String: string(data), Valid: true}
	}

	_, err = q.ExecContext(ctx, `INSERT INTO audit_logs
		(id, user_id, action, resource_type, resource_id, request_id, after_state, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		afterState,
		log.Status,
		log.ErrorMessage,
		formatTime(log.CreatedAt),
	)
	return mapError(err)
}

// ListByResource retrieves all audit logs for a resource, oldest first.
func (r *AuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT
		id, user_id, action, resource_type, resource_id, request_id, after_state, status, error_message, created_at
		FROM audit_logs WHERE resource_type = ? AND resource_id = ?
		ORDER BY created_at, id`, resourceType, resourceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log        domain.AuditLog
			afterState sql.NullString
			createdAt  string
		)
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&afterState,
			&log.Status,
			&log.ErrorMessage,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if afterState.Valid {
			_ = json.Unmarshal([]byte(afterState.String), &log.AfterState)
		}
		log.CreatedAt = parseTime(createdAt)
		logs = append(logs, &log)
	}
	return logs, mapError(rows.Err())
}
