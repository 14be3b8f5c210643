package core_test

import (
	"errors"
	"testing"

	"radiator-stock/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRadiatorService_CreateSeedsStockEverywhere(t *testing.T) {
	f := setupTestDB(t)
	ledger := core.NewStockLedger(f.pool)
	svc := core.NewRadiatorService(f.pool, ledger)

	created, err := svc.CreateRadiator(f.ctx, core.RadiatorInput{
		Code:               "RAD-100",
		Brand:              "Fenix",
		Name:               "Copper Radiator 32mm",
		Year:               2015,
		RetailPrice:        decimal.NewFromFloat(189.50),
		IsPriceOverridable: true,
	})
	if err != nil {
		t.Fatalf("CreateRadiator failed: %v", err)
	}

	if len(created.Stock) != 2 {
		t.Fatalf("Expected stock rows for both warehouses, got %d", len(created.Stock))
	}
	for code, qty := range created.Stock {
		if qty != 0 {
			t.Errorf("Expected %s seeded at 0, got %d", code, qty)
		}
	}

	// Seeding writes no history; the movement log starts empty.
	movements, err := ledger.GetHistory(f.ctx, created.ID)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(movements) != 0 {
		t.Errorf("Expected empty history after seeding, got %d movements", len(movements))
	}
}

func TestRadiatorService_DuplicateCode(t *testing.T) {
	f := setupTestDB(t)
	ledger := core.NewStockLedger(f.pool)
	svc := core.NewRadiatorService(f.pool, ledger)

	// RAD-001 is seeded by the fixture.
	_, err := svc.CreateRadiator(f.ctx, core.RadiatorInput{
		Code: "RAD-001", Brand: "Fenix", Name: "Duplicate", Year: 2018,
		RetailPrice: decimal.NewFromInt(100),
	})
	if !errors.Is(err, core.ErrDuplicateCode) {
		t.Errorf("Expected ErrDuplicateCode, got %v", err)
	}

	// Updating one radiator onto another's code is rejected the same way.
	_, err = svc.UpdateRadiator(f.ctx, f.radiator2, core.RadiatorInput{
		Code: "RAD-001", Brand: "Fenix", Name: "Alloy Radiator 55mm", Year: 2020,
		RetailPrice: decimal.NewFromInt(319),
	})
	if !errors.Is(err, core.ErrDuplicateCode) {
		t.Errorf("Expected ErrDuplicateCode on update, got %v", err)
	}
}

func TestRadiatorService_UpdateAndOptionalPrices(t *testing.T) {
	f := setupTestDB(t)
	ledger := core.NewStockLedger(f.pool)
	svc := core.NewRadiatorService(f.pool, ledger)

	updated, err := svc.UpdateRadiator(f.ctx, f.radiatorID, core.RadiatorInput{
		Code:        "RAD-001",
		Brand:       "Fenix",
		Name:        "Alloy Radiator 40mm",
		Year:        2018,
		RetailPrice: decimal.NewFromFloat(259.99),
		TradePrice: decimal.NullDecimal{
			Decimal: decimal.NewFromFloat(199.99), Valid: true,
		},
	})
	if err != nil {
		t.Fatalf("UpdateRadiator failed: %v", err)
	}
	if !updated.RetailPrice.Equal(decimal.NewFromFloat(259.99)) {
		t.Errorf("Expected retail_price=259.99, got %s", updated.RetailPrice)
	}
	if !updated.TradePrice.Valid || !updated.TradePrice.Decimal.Equal(decimal.NewFromFloat(199.99)) {
		t.Errorf("Expected trade_price=199.99, got %+v", updated.TradePrice)
	}
	// Unset is distinct from zero.
	if updated.CostPrice.Valid {
		t.Errorf("Expected cost_price unset, got %s", updated.CostPrice.Decimal)
	}
}

func TestRadiatorService_DeleteAndNotFound(t *testing.T) {
	f := setupTestDB(t)
	ledger := core.NewStockLedger(f.pool)
	svc := core.NewRadiatorService(f.pool, ledger)

	if err := svc.DeleteRadiator(f.ctx, f.radiator2); err != nil {
		t.Fatalf("DeleteRadiator failed: %v", err)
	}
	if _, err := svc.GetRadiator(f.ctx, f.radiator2); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.DeleteRadiator(f.ctx, uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting unknown id, got %v", err)
	}
}
