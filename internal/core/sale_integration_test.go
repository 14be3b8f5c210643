package core_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"radiator-stock/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func setupSaleTestDB(t *testing.T) (*testFixture, core.SaleService, *core.StockLedger) {
	t.Helper()
	f := setupTestDB(t)

	ledger := core.NewStockLedger(f.pool)
	customers := core.NewCustomerService(f.pool)
	warehouses := core.NewWarehouseService(f.pool)
	radiators := core.NewRadiatorService(f.pool, ledger)
	users := core.NewUserService(f.pool)
	saleSvc := core.NewSaleService(f.pool, ledger, customers, warehouses, radiators, users)
	return f, saleSvc, ledger
}

func (f *testFixture) saleInput(items ...core.SaleItemInput) core.CreateSaleInput {
	return core.CreateSaleInput{
		CustomerID:    f.customerID,
		UserID:        f.userID,
		PaymentMethod: "Cash",
		Items:         items,
	}
}

func TestSaleService_CreateSale(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 10); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}

	sale, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID:  f.radiatorID,
		WarehouseID: f.aklID,
		Quantity:    2,
		UnitPrice:   decimal.NewFromInt(100),
	}))
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	if !sale.SubTotal.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected sub_total=200, got %s", sale.SubTotal)
	}
	if !sale.TaxAmount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Expected tax_amount=30 (15%%), got %s", sale.TaxAmount)
	}
	if !sale.TotalAmount.Equal(decimal.NewFromInt(230)) {
		t.Errorf("Expected total_amount=230, got %s", sale.TotalAmount)
	}
	if sale.Status != core.SaleCompleted {
		t.Errorf("Expected status Completed, got %s", sale.Status)
	}
	if len(sale.Items) != 1 || sale.Items[0].Quantity != 2 {
		t.Fatalf("Expected 1 item with quantity 2, got %+v", sale.Items)
	}
	if !sale.Items[0].TotalPrice.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected item total 200, got %s", sale.Items[0].TotalPrice)
	}

	quantities, err := ledger.GetQuantities(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetQuantities failed: %v", err)
	}
	if quantities["AKL"] != 8 {
		t.Errorf("Expected AKL=8 after selling 2 of 10, got %d", quantities["AKL"])
	}

	// The consumption is recorded as an OUTGOING Sale movement tied to the sale.
	movements, err := ledger.GetHistory(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	newest := movements[0]
	if newest.MovementType != core.MovementOutgoing || newest.ChangeType != core.ChangeSale {
		t.Errorf("Expected OUTGOING/Sale, got %s/%s", newest.MovementType, newest.ChangeType)
	}
	if newest.SaleID == nil || *newest.SaleID != sale.ID {
		t.Errorf("Expected movement tied to sale %s, got %v", sale.ID, newest.SaleID)
	}
}

func TestSaleService_CreateSale_InsufficientStock(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 2); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}

	_, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID:  f.radiatorID,
		WarehouseID: f.aklID,
		Quantity:    3,
		UnitPrice:   decimal.NewFromInt(100),
	}))
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	// The whole unit rolled back: stock unchanged, no sale persisted.
	quantities, err := ledger.GetQuantities(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetQuantities failed: %v", err)
	}
	if quantities["AKL"] != 2 {
		t.Errorf("Expected stock unchanged at 2, got %d", quantities["AKL"])
	}
	sales, err := saleSvc.ListSales(f.ctx)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(sales) != 0 {
		t.Errorf("Expected no sales persisted, got %d", len(sales))
	}
}

func TestSaleService_CreateSale_PartialFailureLeavesNothing(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	// First line is satisfiable, second is not.
	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 10); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	if err := ledger.UpdateStock(f.ctx, f.radiator2, "AKL", 1); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}

	_, err := saleSvc.CreateSale(f.ctx, f.saleInput(
		core.SaleItemInput{RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 5, UnitPrice: decimal.NewFromInt(100)},
		core.SaleItemInput{RadiatorID: f.radiator2, WarehouseID: f.aklID, Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
	))
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	// No partial decrement survives, not even for the satisfiable line.
	q1, _ := ledger.GetQuantities(f.ctx, f.radiatorID)
	q2, _ := ledger.GetQuantities(f.ctx, f.radiator2)
	if q1["AKL"] != 10 || q2["AKL"] != 1 {
		t.Errorf("Expected quantities 10 and 1 untouched, got %d and %d", q1["AKL"], q2["AKL"])
	}
}

func TestSaleService_CreateSale_Validation(t *testing.T) {
	f, saleSvc, _ := setupSaleTestDB(t)

	_, err := saleSvc.CreateSale(f.ctx, f.saleInput())
	if !errors.Is(err, core.ErrEmptySale) {
		t.Errorf("Expected ErrEmptySale, got %v", err)
	}

	input := f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 1, UnitPrice: decimal.NewFromInt(100),
	})
	input.CustomerID = uuid.New()
	_, err = saleSvc.CreateSale(f.ctx, input)
	if !errors.Is(err, core.ErrInvalidCustomer) {
		t.Errorf("Expected ErrInvalidCustomer for unknown customer, got %v", err)
	}

	_, err = saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 0, UnitPrice: decimal.NewFromInt(100),
	}))
	if err == nil {
		t.Error("Expected error for zero quantity, got nil")
	}

	_, err = saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: uuid.New(), WarehouseID: f.aklID, Quantity: 1, UnitPrice: decimal.NewFromInt(100),
	}))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown radiator, got %v", err)
	}

	input = f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 1, UnitPrice: decimal.NewFromInt(100),
	})
	input.UserID = uuid.New()
	_, err = saleSvc.CreateSale(f.ctx, input)
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown acting user, got %v", err)
	}
}

func TestSaleService_CreateSale_InactiveCustomer(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 5); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	if _, err := f.pool.Exec(f.ctx,
		"UPDATE customers SET is_active = false WHERE id = $1", f.customerID); err != nil {
		t.Fatalf("Failed to deactivate customer: %v", err)
	}

	_, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 1, UnitPrice: decimal.NewFromInt(100),
	}))
	if !errors.Is(err, core.ErrInvalidCustomer) {
		t.Errorf("Expected ErrInvalidCustomer for inactive customer, got %v", err)
	}
}

func TestSaleService_CancelSale(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 10); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	sale, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 4, UnitPrice: decimal.NewFromInt(100),
	}))
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	if err := saleSvc.CancelSale(f.ctx, sale.ID); err != nil {
		t.Fatalf("CancelSale failed: %v", err)
	}

	cancelled, err := saleSvc.GetSale(f.ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSale failed: %v", err)
	}
	if cancelled.Status != core.SaleCancelled {
		t.Errorf("Expected status Cancelled, got %s", cancelled.Status)
	}

	// Cancellation never touches stock: the 4 units stay consumed.
	quantities, err := ledger.GetQuantities(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetQuantities failed: %v", err)
	}
	if quantities["AKL"] != 6 {
		t.Errorf("Expected AKL=6 (unchanged by cancel), got %d", quantities["AKL"])
	}

	// Cancelled is terminal.
	if err := saleSvc.CancelSale(f.ctx, sale.ID); !errors.Is(err, core.ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition on second cancel, got %v", err)
	}
	if _, err := saleSvc.RefundSale(f.ctx, sale.ID); !errors.Is(err, core.ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition refunding a cancelled sale, got %v", err)
	}
}

func TestSaleService_RefundSale(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 10); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	sale, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 3, UnitPrice: decimal.NewFromInt(100),
	}))
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	// An unrelated sale moves the same stock row before the refund lands.
	if _, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 2, UnitPrice: decimal.NewFromInt(100),
	})); err != nil {
		t.Fatalf("Interleaved CreateSale failed: %v", err)
	}

	refunded, err := saleSvc.RefundSale(f.ctx, sale.ID)
	if err != nil {
		t.Fatalf("RefundSale failed: %v", err)
	}
	if refunded.Status != core.SaleRefunded {
		t.Errorf("Expected status Refunded, got %s", refunded.Status)
	}

	// 10 - 3 - 2 + 3 = 8: the refund restores exactly the refunded sale's
	// quantities, regardless of interim movements.
	quantities, err := ledger.GetQuantities(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetQuantities failed: %v", err)
	}
	if quantities["AKL"] != 8 {
		t.Errorf("Expected AKL=8 after refund, got %d", quantities["AKL"])
	}

	movements, err := ledger.GetHistory(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	newest := movements[0]
	if newest.MovementType != core.MovementIncoming || newest.ChangeType != core.ChangeRefund {
		t.Errorf("Expected INCOMING/Refund, got %s/%s", newest.MovementType, newest.ChangeType)
	}
	if newest.SaleID == nil || *newest.SaleID != sale.ID {
		t.Errorf("Expected refund movement tied to sale %s, got %v", sale.ID, newest.SaleID)
	}

	// Refunded is terminal: never a second restock.
	if _, err := saleSvc.RefundSale(f.ctx, sale.ID); !errors.Is(err, core.ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition on double refund, got %v", err)
	}
	quantities, _ = ledger.GetQuantities(f.ctx, f.radiatorID)
	if quantities["AKL"] != 8 {
		t.Errorf("Expected AKL still 8 after rejected double refund, got %d", quantities["AKL"])
	}
}

func TestSaleService_ConcurrentTerminalTransitions(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 10); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	sale, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 4, UnitPrice: decimal.NewFromInt(100),
	}))
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	// Cancel and refund race for the same sale. The status guard is re-checked
	// under the header row lock, so exactly one transition wins.
	var wg sync.WaitGroup
	var cancelErr, refundErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		cancelErr = saleSvc.CancelSale(f.ctx, sale.ID)
	}()
	go func() {
		defer wg.Done()
		_, refundErr = saleSvc.RefundSale(f.ctx, sale.ID)
	}()
	wg.Wait()

	if (cancelErr == nil) == (refundErr == nil) {
		t.Fatalf("Expected exactly one transition to win; cancel=%v refund=%v", cancelErr, refundErr)
	}
	loser := cancelErr
	if loser == nil {
		loser = refundErr
	}
	if !errors.Is(loser, core.ErrInvalidStateTransition) {
		t.Errorf("Expected the loser to fail with ErrInvalidStateTransition, got %v", loser)
	}

	after, err := saleSvc.GetSale(f.ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSale failed: %v", err)
	}
	quantities, err := ledger.GetQuantities(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetQuantities failed: %v", err)
	}

	// Stock is restored at most once: 10 if the refund won, 6 if the cancel won.
	switch after.Status {
	case core.SaleRefunded:
		if refundErr != nil {
			t.Error("Status Refunded but RefundSale reported failure")
		}
		if quantities["AKL"] != 10 {
			t.Errorf("Expected AKL=10 after winning refund, got %d", quantities["AKL"])
		}
	case core.SaleCancelled:
		if cancelErr != nil {
			t.Error("Status Cancelled but CancelSale reported failure")
		}
		if quantities["AKL"] != 6 {
			t.Errorf("Expected AKL=6 after winning cancel, got %d", quantities["AKL"])
		}
	default:
		t.Errorf("Expected a terminal status, got %s", after.Status)
	}
}

func TestSaleService_ConcurrentSales_NoOversell(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	const stock = 5
	const attempts = 10
	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", stock); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
				RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 1, UnitPrice: decimal.NewFromInt(100),
			}))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, core.ErrInsufficientStock) {
			t.Errorf("Unexpected failure: %v", err)
		}
	}
	if succeeded != stock {
		t.Errorf("Expected exactly %d sales to succeed, got %d", stock, succeeded)
	}

	quantities, err := ledger.GetQuantities(f.ctx, f.radiatorID)
	if err != nil {
		t.Fatalf("GetQuantities failed: %v", err)
	}
	if quantities["AKL"] != 0 {
		t.Errorf("Expected AKL=0 after selling out, got %d", quantities["AKL"])
	}

	// Every persisted sale carries a distinct number.
	sales, err := saleSvc.ListSales(f.ctx)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, s := range sales {
		if seen[s.SaleNumber] {
			t.Errorf("Duplicate sale number %s", s.SaleNumber)
		}
		seen[s.SaleNumber] = true
	}
}

func TestSaleService_ListSalesByDateRange(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 10); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	sale, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 1, UnitPrice: decimal.NewFromInt(50),
	}))
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	now := time.Now().UTC()
	sales, err := saleSvc.ListSalesByDateRange(f.ctx, now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListSalesByDateRange failed: %v", err)
	}
	if len(sales) != 1 || sales[0].ID != sale.ID {
		t.Fatalf("Expected the one sale in range, got %d", len(sales))
	}
	if sales[0].ItemCount != 1 {
		t.Errorf("Expected item_count=1, got %d", sales[0].ItemCount)
	}

	sales, err = saleSvc.ListSalesByDateRange(f.ctx, now.Add(-2*time.Hour), now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSalesByDateRange failed: %v", err)
	}
	if len(sales) != 0 {
		t.Errorf("Expected no sales outside range, got %d", len(sales))
	}
}

func TestSaleService_GetReceipt(t *testing.T) {
	f, saleSvc, ledger := setupSaleTestDB(t)

	if err := ledger.UpdateStock(f.ctx, f.radiatorID, "AKL", 5); err != nil {
		t.Fatalf("UpdateStock failed: %v", err)
	}
	sale, err := saleSvc.CreateSale(f.ctx, f.saleInput(core.SaleItemInput{
		RadiatorID: f.radiatorID, WarehouseID: f.aklID, Quantity: 1, UnitPrice: decimal.NewFromFloat(249.99),
	}))
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	receipt, err := saleSvc.GetReceipt(f.ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if receipt.CompanyName == "" || receipt.CompanyAddress == "" {
		t.Error("Expected company header on receipt")
	}
	if receipt.Sale == nil || receipt.Sale.ID != sale.ID {
		t.Error("Expected receipt to carry the sale")
	}
	if receipt.Sale.CustomerName != "Test Customer" {
		t.Errorf("Expected joined customer name, got %q", receipt.Sale.CustomerName)
	}
	if receipt.Sale.ProcessedByName != "testuser" {
		t.Errorf("Expected joined username, got %q", receipt.Sale.ProcessedByName)
	}

	if _, err := saleSvc.GetReceipt(f.ctx, uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown sale, got %v", err)
	}
}
