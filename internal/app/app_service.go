package app

import (
	"context"
	"time"

	"radiator-stock/internal/core"

	"github.com/google/uuid"
)

type appService struct {
	sales      core.SaleService
	ledger     *core.StockLedger
	radiators  core.RadiatorService
	warehouses core.WarehouseService
	customers  core.CustomerService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	sales core.SaleService,
	ledger *core.StockLedger,
	radiators core.RadiatorService,
	warehouses core.WarehouseService,
	customers core.CustomerService,
) ApplicationService {
	return &appService{
		sales:      sales,
		ledger:     ledger,
		radiators:  radiators,
		warehouses: warehouses,
		customers:  customers,
	}
}

// ── Sales ────────────────────────────────────────────────────────────────────

func (s *appService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error) {
	items := make([]core.SaleItemInput, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, core.SaleItemInput{
			RadiatorID:  line.RadiatorID,
			WarehouseID: line.WarehouseID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	sale, err := s.sales.CreateSale(ctx, core.CreateSaleInput{
		CustomerID:    req.CustomerID,
		UserID:        req.UserID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Items:         items,
	})
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) ListSales(ctx context.Context) (*SaleListResult, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) ListSalesByDateRange(ctx context.Context, from, to time.Time) (*SaleListResult, error) {
	sales, err := s.sales.ListSalesByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) GetReceipt(ctx context.Context, id uuid.UUID) (*ReceiptResult, error) {
	receipt, err := s.sales.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReceiptResult{Receipt: receipt}, nil
}

func (s *appService) CancelSale(ctx context.Context, id uuid.UUID) error {
	return s.sales.CancelSale(ctx, id)
}

func (s *appService) RefundSale(ctx context.Context, id uuid.UUID) (*SaleResult, error) {
	sale, err := s.sales.RefundSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

// ── Stock ────────────────────────────────────────────────────────────────────

func (s *appService) GetStock(ctx context.Context, radiatorID uuid.UUID) (*StockResult, error) {
	stock, err := s.ledger.GetQuantities(ctx, radiatorID)
	if err != nil {
		return nil, err
	}
	return &StockResult{Stock: stock}, nil
}

func (s *appService) UpdateStock(ctx context.Context, req UpdateStockRequest) error {
	return s.ledger.UpdateStock(ctx, req.RadiatorID, req.WarehouseCode, req.Quantity)
}

func (s *appService) GetStockHistory(ctx context.Context, radiatorID uuid.UUID) (*StockHistoryResult, error) {
	movements, err := s.ledger.GetHistory(ctx, radiatorID)
	if err != nil {
		return nil, err
	}
	return &StockHistoryResult{Movements: movements}, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func radiatorInput(req RadiatorRequest) core.RadiatorInput {
	return core.RadiatorInput{
		Code:               req.Code,
		Brand:              req.Brand,
		Name:               req.Name,
		Year:               req.Year,
		RetailPrice:        req.RetailPrice,
		TradePrice:         req.TradePrice,
		CostPrice:          req.CostPrice,
		IsPriceOverridable: req.IsPriceOverridable,
		MaxDiscountPercent: req.MaxDiscountPercent,
	}
}

func (s *appService) CreateRadiator(ctx context.Context, req RadiatorRequest) (*RadiatorResult, error) {
	r, err := s.radiators.CreateRadiator(ctx, radiatorInput(req))
	if err != nil {
		return nil, err
	}
	return &RadiatorResult{Radiator: r}, nil
}

func (s *appService) GetRadiator(ctx context.Context, id uuid.UUID) (*RadiatorResult, error) {
	r, err := s.radiators.GetRadiator(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RadiatorResult{Radiator: r}, nil
}

func (s *appService) ListRadiators(ctx context.Context) (*RadiatorListResult, error) {
	radiators, err := s.radiators.ListRadiators(ctx)
	if err != nil {
		return nil, err
	}
	return &RadiatorListResult{Radiators: radiators}, nil
}

func (s *appService) UpdateRadiator(ctx context.Context, id uuid.UUID, req RadiatorRequest) (*RadiatorResult, error) {
	r, err := s.radiators.UpdateRadiator(ctx, id, radiatorInput(req))
	if err != nil {
		return nil, err
	}
	return &RadiatorResult{Radiator: r}, nil
}

func (s *appService) DeleteRadiator(ctx context.Context, id uuid.UUID) error {
	return s.radiators.DeleteRadiator(ctx, id)
}

// ── Directories ──────────────────────────────────────────────────────────────

func (s *appService) ListWarehouses(ctx context.Context) (*WarehouseListResult, error) {
	warehouses, err := s.warehouses.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	return &WarehouseListResult{Warehouses: warehouses}, nil
}

func (s *appService) GetWarehouseByCode(ctx context.Context, code string) (*WarehouseResult, error) {
	w, err := s.warehouses.GetWarehouseByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &WarehouseResult{Warehouse: w}, nil
}

func (s *appService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResult, error) {
	c, err := s.customers.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}

func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error) {
	c, err := s.customers.CreateCustomer(ctx, core.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Address:   req.Address,
	})
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, nil
}
