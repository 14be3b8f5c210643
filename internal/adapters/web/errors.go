package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"radiator-stock/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// mapDomainError translates a core failure kind into an HTTP status and a
// stable string code the caller can branch on. Everything unmatched is an
// infrastructure failure and comes back as a 500 without internal detail.
func mapDomainError(err error) (status int, code string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, core.ErrInvalidCustomer):
		return http.StatusBadRequest, "INVALID_CUSTOMER"
	case errors.Is(err, core.ErrEmptySale):
		return http.StatusBadRequest, "EMPTY_SALE"
	case errors.Is(err, core.ErrInsufficientStock):
		return http.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, core.ErrInvalidStateTransition):
		return http.StatusConflict, "INVALID_STATE_TRANSITION"
	case errors.Is(err, core.ErrDuplicateSaleNumber):
		return http.StatusConflict, "DUPLICATE_SALE_NUMBER"
	case errors.Is(err, core.ErrDuplicateCode):
		return http.StatusConflict, "DUPLICATE_CODE"
	}
	return http.StatusInternalServerError, "PERSISTENCE_FAILURE"
}

// writeDomainError maps err and writes it. 500s hide the underlying message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, r, message, code, status)
}
