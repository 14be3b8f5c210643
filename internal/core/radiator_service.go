package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RadiatorInput is the caller-facing shape for creating or updating a radiator.
type RadiatorInput struct {
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

// RadiatorWithStock is the read projection of a radiator plus its per-warehouse
// quantities, keyed by warehouse code.
type RadiatorWithStock struct {
	Radiator
	Stock map[string]int `json:"stock"`
}

// RadiatorService is the catalog directory.
type RadiatorService interface {
	CreateRadiator(ctx context.Context, input RadiatorInput) (*RadiatorWithStock, error)
	GetRadiator(ctx context.Context, id uuid.UUID) (*RadiatorWithStock, error)
	ListRadiators(ctx context.Context) ([]RadiatorWithStock, error)
	UpdateRadiator(ctx context.Context, id uuid.UUID, input RadiatorInput) (*RadiatorWithStock, error)
	DeleteRadiator(ctx context.Context, id uuid.UUID) error
	RadiatorExists(ctx context.Context, id uuid.UUID) (bool, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type radiatorService struct {
	pool   *pgxpool.Pool
	ledger *StockLedger
}

func NewRadiatorService(pool *pgxpool.Pool, ledger *StockLedger) RadiatorService {
	return &radiatorService{pool: pool, ledger: ledger}
}

const radiatorColumns = `id, code, brand, name, year, retail_price, trade_price, cost_price,
	is_price_overridable, max_discount_percent, created_at, updated_at`

func scanRadiator(row pgx.Row, r *Radiator) error {
	return row.Scan(&r.ID, &r.Code, &r.Brand, &r.Name, &r.Year,
		&r.RetailPrice, &r.TradePrice, &r.CostPrice,
		&r.IsPriceOverridable, &r.MaxDiscountPercent, &r.CreatedAt, &r.UpdatedAt)
}

// CreateRadiator inserts the SKU and seeds a zero stock row in every known
// warehouse so reads see an explicit level everywhere from day one. Seeding
// writes history-free zeros, which keeps the delta-sum invariant intact.
func (s *radiatorService) CreateRadiator(ctx context.Context, input RadiatorInput) (*RadiatorWithStock, error) {
	codeTaken, err := s.CodeExists(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if codeTaken {
		return nil, fmt.Errorf("radiator code %s: %w", input.Code, ErrDuplicateCode)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO radiators (id, code, brand, name, year, retail_price, trade_price,
			cost_price, is_price_overridable, max_discount_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, id, input.Code, input.Brand, input.Name, input.Year, input.RetailPrice,
		input.TradePrice, input.CostPrice, input.IsPriceOverridable, input.MaxDiscountPercent)
	if err != nil {
		return nil, fmt.Errorf("failed to insert radiator: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO stock_levels (id, radiator_id, warehouse_id, quantity)
		SELECT gen_random_uuid(), $1, w.id, 0 FROM warehouses w
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to seed stock levels: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit radiator creation: %w", err)
	}
	return s.GetRadiator(ctx, id)
}

func (s *radiatorService) GetRadiator(ctx context.Context, id uuid.UUID) (*RadiatorWithStock, error) {
	var r Radiator
	err := scanRadiator(s.pool.QueryRow(ctx,
		"SELECT "+radiatorColumns+" FROM radiators WHERE id = $1", id), &r)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("radiator %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch radiator: %w", err)
	}

	stock, err := s.ledger.GetQuantities(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RadiatorWithStock{Radiator: r, Stock: stock}, nil
}

func (s *radiatorService) ListRadiators(ctx context.Context) ([]RadiatorWithStock, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+radiatorColumns+" FROM radiators ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query radiators: %w", err)
	}
	defer rows.Close()

	var radiators []Radiator
	for rows.Next() {
		var r Radiator
		if err := scanRadiator(rows, &r); err != nil {
			return nil, fmt.Errorf("failed to scan radiator: %w", err)
		}
		radiators = append(radiators, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]RadiatorWithStock, 0, len(radiators))
	for _, r := range radiators {
		stock, err := s.ledger.GetQuantities(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, RadiatorWithStock{Radiator: r, Stock: stock})
	}
	return result, nil
}

func (s *radiatorService) UpdateRadiator(ctx context.Context, id uuid.UUID, input RadiatorInput) (*RadiatorWithStock, error) {
	var codeTaken bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM radiators WHERE code = $1 AND id <> $2)", input.Code, id,
	).Scan(&codeTaken); err != nil {
		return nil, fmt.Errorf("failed to check radiator code: %w", err)
	}
	if codeTaken {
		return nil, fmt.Errorf("radiator code %s: %w", input.Code, ErrDuplicateCode)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE radiators
		SET code = $1, brand = $2, name = $3, year = $4, retail_price = $5,
		    trade_price = $6, cost_price = $7, is_price_overridable = $8,
		    max_discount_percent = $9, updated_at = NOW()
		WHERE id = $10
	`, input.Code, input.Brand, input.Name, input.Year, input.RetailPrice,
		input.TradePrice, input.CostPrice, input.IsPriceOverridable, input.MaxDiscountPercent, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update radiator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("radiator %s: %w", id, ErrNotFound)
	}
	return s.GetRadiator(ctx, id)
}

func (s *radiatorService) DeleteRadiator(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM radiators WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete radiator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("radiator %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *radiatorService) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM radiators WHERE code = $1)", code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check radiator code: %w", err)
	}
	return exists, nil
}

func (s *radiatorService) RadiatorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM radiators WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check radiator: %w", err)
	}
	return exists, nil
}
