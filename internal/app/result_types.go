package app

import "radiator-stock/internal/core"

// SaleResult is returned by sale lifecycle operations.
type SaleResult struct {
	Sale *core.Sale
}

// SaleListResult is returned by ListSales and ListSalesByDateRange.
type SaleListResult struct {
	Sales []core.SaleSummary
}

// ReceiptResult is returned by GetReceipt.
type ReceiptResult struct {
	Receipt *core.Receipt
}

// StockResult is returned by GetStock: warehouse code → quantity, every known
// warehouse present, absent stock rows read as 0.
type StockResult struct {
	Stock map[string]int
}

// StockHistoryResult is returned by GetStockHistory.
type StockHistoryResult struct {
	Movements []core.StockMovement
}

// RadiatorResult is returned by radiator operations.
type RadiatorResult struct {
	Radiator *core.RadiatorWithStock
}

// RadiatorListResult is returned by ListRadiators.
type RadiatorListResult struct {
	Radiators []core.RadiatorWithStock
}

// WarehouseListResult is returned by ListWarehouses.
type WarehouseListResult struct {
	Warehouses []core.Warehouse
}

// WarehouseResult is returned by GetWarehouseByCode.
type WarehouseResult struct {
	Warehouse *core.Warehouse
}

// CustomerResult is returned by GetCustomer and CreateCustomer.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}
