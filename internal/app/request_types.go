package app

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest is the input for creating a sale.
type CreateSaleRequest struct {
	CustomerID    uuid.UUID
	UserID        uuid.UUID // acting user (processed-by)
	PaymentMethod string
	Notes         string
	Items         []SaleLineRequest
}

// SaleLineRequest is a single line within a CreateSaleRequest. UnitPrice is
// used as given; there is no server-side repricing.
type SaleLineRequest struct {
	RadiatorID  uuid.UUID
	WarehouseID uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
}

// UpdateStockRequest sets an absolute stock quantity (manual override).
type UpdateStockRequest struct {
	RadiatorID    uuid.UUID
	WarehouseCode string
	Quantity      int
}

// RadiatorRequest is the input for creating or updating a radiator.
type RadiatorRequest struct {
	Code               string
	Brand              string
	Name               string
	Year               int
	RetailPrice        decimal.Decimal
	TradePrice         decimal.NullDecimal
	CostPrice          decimal.NullDecimal
	IsPriceOverridable bool
	MaxDiscountPercent decimal.NullDecimal
}

// CreateCustomerRequest is the input for creating a customer.
type CreateCustomerRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Address   string
}
