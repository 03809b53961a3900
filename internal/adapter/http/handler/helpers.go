package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/sharefund/internal/adapter/http/dto"
	"github.com/iho/sharefund/internal/domain"
)

// Error codes returned in dto.ErrorResponse.Code.
const (
	CodeValidation         = "validation_error"
	CodeProjectNotFound    = "project_not_found"
	CodeInvestmentNotFound = "investment_not_found"
	CodeSharesUnavailable  = "shares_unavailable"
	CodeRetryExhausted     = "retry_exhausted"
	CodePartialFailure     = "partial_failure"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeTimeout            = "timeout"
	CodeCanceled           = "canceled"
	CodeInternal           = "internal"
	CodeBadRequest         = "bad_request"
	CodeNotFound           = "not_found"
)

// StatusClientClosedRequest is the non-standard status logged when the caller went away.
const StatusClientClosedRequest = 499

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
	})
}

// errorStatus maps a use case error to a status code and error code.
// Partial failures are checked first: they wrap the underlying store error.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPartialFailure):
		return http.StatusAccepted, CodePartialFailure
	case errors.Is(err, domain.ErrReservationRetriesExhausted),
		errors.Is(err, domain.ErrTransientConflict):
		return http.StatusServiceUnavailable, CodeRetryExhausted
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound, CodeProjectNotFound
	case errors.Is(err, domain.ErrInvestmentNotFound):
		return http.StatusNotFound, CodeInvestmentNotFound
	case errors.Is(err, domain.ErrSharesUnavailable):
		return http.StatusConflict, CodeSharesUnavailable
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, CodeForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, CodeCanceled
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// writeDomainError renders err. Internal errors never leak their message.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)

	resp := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    code,
	}

	switch status {
	case http.StatusInternalServerError:
		resp.Message = "internal error"
	case StatusClientClosedRequest:
		resp.Error = "Client Closed Request"
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", "1")
	}

	var unavailable *domain.SharesUnavailableError
	if errors.As(err, &unavailable) {
		available := unavailable.Available
		resp.Available = &available
	}

	writeJSON(w, status, resp)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// authorizeBuyer checks that the caller may act for buyerID. Without an
// authenticated user the check is skipped; authentication is then disabled.
func authorizeBuyer(ctx context.Context, buyerID string) error {
	user, ok := domain.UserFromContext(ctx)
	if !ok || user.Role == domain.RoleAdmin {
		return nil
	}
	if buyerID != user.ID {
		return domain.ErrInsufficientRole
	}
	return nil
}
