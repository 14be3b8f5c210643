package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Radiator is a sellable SKU in the catalog. RetailPrice is always set;
// TradePrice and CostPrice distinguish "unset" from zero via NullDecimal.
type Radiator struct {
	ID                 uuid.UUID           `json:"id"`
	Code               string              `json:"code"`
	Brand              string              `json:"brand"`
	Name               string              `json:"name"`
	Year               int                 `json:"year"`
	RetailPrice        decimal.Decimal     `json:"retail_price"`
	TradePrice         decimal.NullDecimal `json:"trade_price"`
	CostPrice          decimal.NullDecimal `json:"cost_price"`
	IsPriceOverridable bool                `json:"is_price_overridable"`
	MaxDiscountPercent decimal.NullDecimal `json:"max_discount_percent"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Warehouse is a physical storage location.
type Warehouse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Customer is a sales customer master record.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the staff member who processed a sale. Credential management is out
// of scope here; only the projection fields are ever read.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      int       `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
