package core

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Failure kinds the calling layer can branch on. Everything else that comes out
// of a service is an infrastructure failure wrapped with %w and implies a full
// rollback of the enclosing transaction.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidCustomer        = errors.New("customer does not exist or is inactive")
	ErrEmptySale              = errors.New("sale must contain at least one item")
	ErrInvalidStateTransition = errors.New("sale status does not allow this transition")
	ErrDuplicateSaleNumber    = errors.New("sale number already exists")
	ErrDuplicateCode          = errors.New("code already exists")
	ErrInsufficientStock      = errors.New("insufficient stock")
)

// InsufficientStockError carries the per-line detail of a failed decrement.
// It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	RadiatorID  uuid.UUID
	WarehouseID uuid.UUID
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for radiator %s in warehouse %s: available %d, requested %d",
		e.RadiatorID, e.WarehouseID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
