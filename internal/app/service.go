package app

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApplicationService is the single interface presentation adapters call. It
// decouples the HTTP layer from the domain services and owns the read-model
// mapping; implementations contain no display logic of any kind.
type ApplicationService interface {
	// CreateSale creates a completed sale, consuming stock atomically.
	CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error)

	// GetSale returns a single sale with its line items.
	GetSale(ctx context.Context, id uuid.UUID) (*SaleResult, error)

	// ListSales returns all sales, newest first.
	ListSales(ctx context.Context) (*SaleListResult, error)

	// ListSalesByDateRange returns sales whose sale date falls in [from, to].
	ListSalesByDateRange(ctx context.Context, from, to time.Time) (*SaleListResult, error)

	// GetReceipt returns the printable receipt projection of a sale.
	GetReceipt(ctx context.Context, id uuid.UUID) (*ReceiptResult, error)

	// CancelSale marks a completed sale Cancelled. Stock is not restored.
	CancelSale(ctx context.Context, id uuid.UUID) error

	// RefundSale marks a completed sale Refunded and restores its stock.
	RefundSale(ctx context.Context, id uuid.UUID) (*SaleResult, error)

	// GetStock returns per-warehouse quantities for a radiator.
	GetStock(ctx context.Context, radiatorID uuid.UUID) (*StockResult, error)

	// UpdateStock sets an absolute quantity for a (radiator, warehouse) pair.
	UpdateStock(ctx context.Context, req UpdateStockRequest) error

	// GetStockHistory returns the movement log for a radiator, newest first.
	GetStockHistory(ctx context.Context, radiatorID uuid.UUID) (*StockHistoryResult, error)

	// Catalog directory.
	CreateRadiator(ctx context.Context, req RadiatorRequest) (*RadiatorResult, error)
	GetRadiator(ctx context.Context, id uuid.UUID) (*RadiatorResult, error)
	ListRadiators(ctx context.Context) (*RadiatorListResult, error)
	UpdateRadiator(ctx context.Context, id uuid.UUID, req RadiatorRequest) (*RadiatorResult, error)
	DeleteRadiator(ctx context.Context, id uuid.UUID) error

	// Warehouse and customer directories.
	ListWarehouses(ctx context.Context) (*WarehouseListResult, error)
	GetWarehouseByCode(ctx context.Context, code string) (*WarehouseResult, error)
	ListCustomers(ctx context.Context) (*CustomerListResult, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResult, error)
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error)
}
