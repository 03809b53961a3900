package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/iho/sharefund/internal/domain"
)

func TestAuditRepositoryCreateTxAssignsID(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	ctx := context.Background()
	tx, err := NewTxManager(mockPool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	log := &domain.AuditLog{
		UserID:       "buyer-1",
		Action:       string(domain.AuditActionInvestmentCreate),
		ResourceType: domain.ResourceTypeInvestment,
		ResourceID:   "inv-1",
		AfterState:   domain.JSON{"shares_purchased": 3},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now(),
	}
	if err := NewAuditRepository(mockPool).CreateTx(ctx, tx, log); err != nil {
		t.Fatalf("create: %v", err)
	}
	if log.ID == "" {
		t.Fatalf("expected generated audit id")
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	assertExpectations(t, mockPool)
}

func TestAuditRepositoryListByResource(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()
	mockPool.ExpectQuery("FROM audit_logs").
		WithArgs(domain.ResourceTypeProject, "p-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "action", "resource_type", "resource_id",
			"request_id", "after_state", "status", "error_message", "created_at",
		}).AddRow("a-1", "admin-1", "project.create", "project", "p-1", "req-1",
			[]byte(`{"title":"Rooftop Array"}`), "success", "", now))

	logs, err := NewAuditRepository(mockPool).ListByResource(context.Background(), domain.ResourceTypeProject, "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 || logs[0].AfterState["title"] != "Rooftop Array" {
		t.Fatalf("unexpected logs: %+v", logs)
	}
	assertExpectations(t, mockPool)
}
