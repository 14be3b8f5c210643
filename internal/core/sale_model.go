package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed consumption-tax rate applied to every sale subtotal.
var TaxRate = decimal.NewFromFloat(0.15)

// SaleStatus is the lifecycle state of a sale. Stored as an int; the numeric
// values are the stable storage representation and must not be reordered.
type SaleStatus int

const (
	SaleCompleted SaleStatus = iota
	SaleCancelled
	SaleRefunded
)

func (s SaleStatus) String() string {
	switch s {
	case SaleCompleted:
		return "Completed"
	case SaleCancelled:
		return "Cancelled"
	case SaleRefunded:
		return "Refunded"
	}
	return fmt.Sprintf("SaleStatus(%d)", int(s))
}

// Valid reports whether s is one of the defined statuses.
func (s SaleStatus) Valid() bool {
	return s >= SaleCompleted && s <= SaleRefunded
}

// CanTransition reports whether a sale may move from s to target.
// Completed may become Cancelled or Refunded; both are terminal.
func (s SaleStatus) CanTransition(target SaleStatus) bool {
	return s == SaleCompleted && (target == SaleCancelled || target == SaleRefunded)
}

// Sale is the persisted sale aggregate. It is created fully formed; Status is
// the only field ever mutated afterwards.
type Sale struct {
	ID              uuid.UUID       `json:"id"`
	SaleNumber      string          `json:"sale_number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"` // joined from customers
	UserID          uuid.UUID       `json:"user_id"`
	ProcessedByName string          `json:"processed_by_name"` // joined from users
	SubTotal        decimal.Decimal `json:"sub_total"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes"`
	Status          SaleStatus      `json:"status"`
	SaleDate        time.Time       `json:"sale_date"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []SaleItem      `json:"items"`
}

// SaleItem is one line of a sale. Immutable once written.
type SaleItem struct {
	ID            uuid.UUID       `json:"id"`
	SaleID        uuid.UUID       `json:"sale_id"`
	RadiatorID    uuid.UUID       `json:"radiator_id"`
	RadiatorCode  string          `json:"radiator_code"` // joined from radiators
	RadiatorName  string          `json:"radiator_name"` // joined from radiators
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	WarehouseCode string          `json:"warehouse_code"` // joined from warehouses
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"` // = Quantity × UnitPrice
}

// SaleSummary is the list projection of a sale (no line detail).
type SaleSummary struct {
	ID              uuid.UUID       `json:"id"`
	SaleNumber      string          `json:"sale_number"`
	CustomerName    string          `json:"customer_name"`
	ProcessedByName string          `json:"processed_by_name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	Status          SaleStatus      `json:"status"`
	SaleDate        time.Time       `json:"sale_date"`
	ItemCount       int             `json:"item_count"`
}

// SaleItemInput is one requested line when creating a sale. UnitPrice is taken
// verbatim from the caller; the engine never reprices against the catalog.
type SaleItemInput struct {
	RadiatorID  uuid.UUID
	WarehouseID uuid.UUID
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CreateSaleInput is the full input for SaleService.CreateSale.
type CreateSaleInput struct {
	CustomerID    uuid.UUID
	UserID        uuid.UUID
	PaymentMethod string
	Notes         string
	Items         []SaleItemInput
}

// SaleTotals computes subtotal, tax, and total for a set of sale lines.
// Tax is subtotal × TaxRate rounded to 2 decimal places.
func SaleTotals(items []SaleItemInput) (subTotal, taxAmount, totalAmount decimal.Decimal) {
	for _, item := range items {
		subTotal = subTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	taxAmount = subTotal.Mul(TaxRate).Round(2)
	totalAmount = subTotal.Add(taxAmount)
	return subTotal, taxAmount, totalAmount
}

// Receipt is the printable projection of a completed sale.
type Receipt struct {
	Sale           *Sale  `json:"sale"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
	CompanyPhone   string `json:"company_phone"`
	CompanyEmail   string `json:"company_email"`
}
