package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"radiator-stock/internal/core"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{core.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("sale abc: %w", core.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{core.ErrInvalidCustomer, http.StatusBadRequest, "INVALID_CUSTOMER"},
		{core.ErrEmptySale, http.StatusBadRequest, "EMPTY_SALE"},
		{&core.InsufficientStockError{Available: 2, Requested: 3}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{core.ErrInvalidStateTransition, http.StatusConflict, "INVALID_STATE_TRANSITION"},
		{core.ErrDuplicateSaleNumber, http.StatusConflict, "DUPLICATE_SALE_NUMBER"},
		{core.ErrDuplicateCode, http.StatusConflict, "DUPLICATE_CODE"},
		{errors.New("connection reset"), http.StatusInternalServerError, "PERSISTENCE_FAILURE"},
	}

	for _, tt := range tests {
		status, code := mapDomainError(tt.err)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Errorf("mapDomainError(%v): expected %d/%s, got %d/%s",
				tt.err, tt.wantStatus, tt.wantCode, status, code)
		}
	}
}
