package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MovementType is the direction of a stock movement. Stored as text.
type MovementType string

const (
	MovementIncoming MovementType = "INCOMING"
	MovementOutgoing MovementType = "OUTGOING"
)

// ChangeType is the business reason for a stock movement. Stored as text.
type ChangeType string

const (
	ChangeSale       ChangeType = "Sale"
	ChangeRefund     ChangeType = "Refund"
	ChangeAdjustment ChangeType = "Adjustment"
	ChangeManual     ChangeType = "Manual"
)

// ParseChangeType converts the storage representation back into a ChangeType.
func ParseChangeType(s string) (ChangeType, error) {
	switch ChangeType(s) {
	case ChangeSale, ChangeRefund, ChangeAdjustment, ChangeManual:
		return ChangeType(s), nil
	}
	return "", fmt.Errorf("unknown change type %q", s)
}

// StockLevel is one quantity per (radiator, warehouse) pair. Exactly one row
// exists per pair once either side has seen a mutation; absent rows read as 0.
type StockLevel struct {
	ID          uuid.UUID `json:"id"`
	RadiatorID  uuid.UUID `json:"radiator_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockMovement is one immutable history entry. QuantityChange is signed;
// summing all changes for a pair reproduces its current quantity from 0.
type StockMovement struct {
	ID             uuid.UUID    `json:"id"`
	RadiatorID     uuid.UUID    `json:"radiator_id"`
	WarehouseID    uuid.UUID    `json:"warehouse_id"`
	WarehouseCode  string       `json:"warehouse_code"`
	OldQuantity    int          `json:"old_quantity"`
	NewQuantity    int          `json:"new_quantity"`
	QuantityChange int          `json:"quantity_change"`
	MovementType   MovementType `json:"movement_type"`
	ChangeType     ChangeType   `json:"change_type"`
	SaleID         *uuid.UUID   `json:"sale_id,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}
