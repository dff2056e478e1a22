package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     errorPayload `json:"error"`
	RequestID string       `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// encoding should rarely fail; the status line is already sent
		slog.Error("encode response error", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error:     errorPayload{Code: code, Message: message},
		RequestID: requestIDFromContext(r.Context()),
	})
}

// mapDomainError returns the HTTP status for err.
func mapDomainError(err error) int {
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrInvalidLedgerSetup):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsStateMismatch(err), errors.Is(err, port.ErrIdempotencyConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrNotMinter):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err. Unexpected errors are logged and
// reported without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" error",
			slog.Any("error", err),
			slog.String("request_id", requestIDFromContext(r.Context())))
		writeError(w, r, status, "Internal", "internal error")
		return
	}
	code := domain.Code(err)
	if errors.Is(err, port.ErrIdempotencyConflict) {
		code = "IdempotencyConflict"
	} else if errors.Is(err, domain.ErrInvalidLedgerSetup) {
		code = "InvalidLedgerSetup"
	}
	writeError(w, r, status, code, err.Error())
}
