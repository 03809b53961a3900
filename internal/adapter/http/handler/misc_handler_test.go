package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/sharefund/internal/adapter/http/dto"
	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

func TestReconciliationHandler_Project(t *testing.T) {
	svc := &stubReconciliationService{
		projectFn: func(ctx context.Context, projectID string) (*usecase.ReconciliationResult, error) {
			return &usecase.ReconciliationResult{ProjectID: projectID, LedgerSoldShares: 10, RecordedShares: 8, Difference: 2}, nil
		},
	}
	h := NewReconciliationHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/projects/p-1/reconciliation", nil), "id", "p-1")
	rec := httptest.NewRecorder()
	h.Project(rec, req)

	var resp dto.ReconciliationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProjectID != "p-1" || resp.Difference != 2 || resp.IsReconciled {
		t.Fatalf("unexpected result: %+v", resp)
	}
}

func TestReconciliationHandler_ReportError(t *testing.T) {
	svc := &stubReconciliationService{
		reportFn: func(ctx context.Context) (*usecase.ReconciliationReport, error) {
			return nil, errors.New("db down")
		},
	}
	h := NewReconciliationHandler(svc)

	rec := httptest.NewRecorder()
	h.Report(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reconciliation/report", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestNotificationHandler_List(t *testing.T) {
	inbox := &stubInbox{
		recentFn: func(ctx context.Context, buyerID string, limit int64) ([]domain.Notification, error) {
			if limit != 50 {
				t.Fatalf("expected limit capped at 50, got %d", limit)
			}
			return nil, nil
		},
	}
	h := NewNotificationHandler(inbox)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/buyers/buyer-1/notifications?limit=500", nil), "id", "buyer-1")
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty list, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	healthy := NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(ctx context.Context) error { return nil }),
		"redis":    nil,
	})

	rec := httptest.NewRecorder()
	healthy.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	failing := NewHealthHandler(map[string]Pinger{
		"database": PingFunc(func(ctx context.Context) error { return errors.New("refused") }),
	})

	rec = httptest.NewRecorder()
	failing.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
