package core_test

import (
	"errors"
	"testing"

	"radiator-stock/internal/core"

	"github.com/google/uuid"
)

func TestWarehouseService_GetByCode(t *testing.T) {
	f := setupTestDB(t)
	svc := core.NewWarehouseService(f.pool)

	w, err := svc.GetWarehouseByCode(f.ctx, "AKL")
	if err != nil {
		t.Fatalf("GetWarehouseByCode failed: %v", err)
	}
	if w.ID != f.aklID || w.Name != "Auckland" {
		t.Errorf("Expected Auckland warehouse %s, got %+v", f.aklID, w)
	}

	if _, err := svc.GetWarehouseByCode(f.ctx, "WLG"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestCustomerService_GetCustomer(t *testing.T) {
	f := setupTestDB(t)
	svc := core.NewCustomerService(f.pool)

	c, err := svc.GetCustomer(f.ctx, f.customerID)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if c.FirstName != "Test" || c.LastName != "Customer" || !c.IsActive {
		t.Errorf("Expected the seeded active customer, got %+v", c)
	}

	if _, err := svc.GetCustomer(f.ctx, uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown customer, got %v", err)
	}
}

func TestUserService_GetUser(t *testing.T) {
	f := setupTestDB(t)
	svc := core.NewUserService(f.pool)

	u, err := svc.GetUser(f.ctx, f.userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.Username != "testuser" {
		t.Errorf("Expected username testuser, got %q", u.Username)
	}

	if _, err := svc.GetUser(f.ctx, uuid.New()); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}
