package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WarehouseService is the warehouse directory. Warehouses are reference data
// seeded by migrations or ops tooling; this service only reads them.
type WarehouseService interface {
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	GetWarehouseByCode(ctx context.Context, code string) (*Warehouse, error)
	WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type warehouseService struct {
	pool *pgxpool.Pool
}

func NewWarehouseService(pool *pgxpool.Pool) WarehouseService {
	return &warehouseService{pool: pool}
}

func (s *warehouseService) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, code, name, created_at FROM warehouses ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (s *warehouseService) GetWarehouseByCode(ctx context.Context, code string) (*Warehouse, error) {
	var w Warehouse
	err := s.pool.QueryRow(ctx,
		"SELECT id, code, name, created_at FROM warehouses WHERE code = $1", code,
	).Scan(&w.ID, &w.Code, &w.Name, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("warehouse %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch warehouse: %w", err)
	}
	return &w, nil
}

func (s *warehouseService) WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check warehouse: %w", err)
	}
	return exists, nil
}
