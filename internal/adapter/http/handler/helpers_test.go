package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/sharefund/internal/adapter/http/dto"
	"github.com/iho/sharefund/internal/domain"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.NewValidationError("shares", "must be at least 1"), http.StatusBadRequest, CodeValidation},
		{"project not found", fmt.Errorf("load: %w", domain.ErrProjectNotFound), http.StatusNotFound, CodeProjectNotFound},
		{"investment not found", domain.ErrInvestmentNotFound, http.StatusNotFound, CodeInvestmentNotFound},
		{"shares unavailable", &domain.SharesUnavailableError{Requested: 5, Available: 2}, http.StatusConflict, CodeSharesUnavailable},
		{"retries exhausted", &domain.RetryExhaustedError{Attempts: 3, Err: domain.ErrTransientConflict}, http.StatusServiceUnavailable, CodeRetryExhausted},
		{"partial failure wins over wrapped cause", &domain.PartialFailureError{
			Investment: &domain.Investment{},
			Err:        domain.ErrProjectNotFound,
		}, http.StatusAccepted, CodePartialFailure},
		{"forbidden", domain.ErrInsufficientRole, http.StatusForbidden, CodeForbidden},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout},
		{"canceled", context.Canceled, StatusClientClosedRequest, CodeCanceled},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := errorStatus(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Fatalf("errorStatus() = %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestWriteDomainError_SharesUnavailableCarriesAvailable(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, &domain.SharesUnavailableError{ProjectID: "p-1", Requested: 5, Available: 2})

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusConflict || resp.Available == nil || *resp.Available != 2 {
		t.Fatalf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestWriteDomainError_InternalDoesNotLeak(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "internal error" {
		t.Fatalf("expected generic message, got %q", resp.Message)
	}
}

func TestWriteDomainError_RetryExhaustedSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, &domain.RetryExhaustedError{Attempts: 5, Err: domain.ErrTransientConflict})

	if rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?limit=10&offset=abc", nil)

	if got := parseIntQuery(req, "limit", 50); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := parseIntQuery(req, "offset", 0); got != 0 {
		t.Fatalf("expected default for invalid value, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 7); got != 7 {
		t.Fatalf("expected default for missing value, got %d", got)
	}
}

func TestAuthorizeBuyer(t *testing.T) {
	investor := &domain.User{ID: "buyer-1", Role: domain.RoleInvestor}
	admin := &domain.User{ID: "ops", Role: domain.RoleAdmin}

	if err := authorizeBuyer(context.Background(), "anyone"); err != nil {
		t.Fatalf("expected no check without user, got %v", err)
	}
	if err := authorizeBuyer(domain.ContextWithUser(context.Background(), investor), "buyer-1"); err != nil {
		t.Fatalf("expected own buyer to pass, got %v", err)
	}
	if err := authorizeBuyer(domain.ContextWithUser(context.Background(), investor), "buyer-2"); !errors.Is(err, domain.ErrInsufficientRole) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := authorizeBuyer(domain.ContextWithUser(context.Background(), admin), "buyer-2"); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}
