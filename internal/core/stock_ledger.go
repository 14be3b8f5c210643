package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockLedger is the sole writer of stock_levels and stock_history. Every
// mutation appends exactly one history row in the same transaction as the
// quantity update, and quantities never go below zero.
//
// The ...Tx methods operate inside a caller-supplied transaction so that a
// sale's decrements, history rows, and sale inserts commit or roll back as one
// unit. The ledger itself holds no cross-call state.
type StockLedger struct {
	pool *pgxpool.Pool
}

func NewStockLedger(pool *pgxpool.Pool) *StockLedger {
	return &StockLedger{pool: pool}
}

// GetQuantities returns the quantity of a radiator in every known warehouse,
// keyed by warehouse code and defaulting to 0 where no stock row exists. An
// unknown radiator yields the all-zero map rather than an error.
func (l *StockLedger) GetQuantities(ctx context.Context, radiatorID uuid.UUID) (map[string]int, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT w.code, COALESCE(sl.quantity, 0)
		FROM warehouses w
		LEFT JOIN stock_levels sl ON sl.warehouse_id = w.id AND sl.radiator_id = $1
		ORDER BY w.code
	`, radiatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock quantities: %w", err)
	}
	defer rows.Close()

	quantities := make(map[string]int)
	for rows.Next() {
		var code string
		var qty int
		if err := rows.Scan(&code, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan stock quantity: %w", err)
		}
		quantities[code] = qty
	}
	return quantities, rows.Err()
}

// GetHistory returns every movement for a radiator, newest first.
func (l *StockLedger) GetHistory(ctx context.Context, radiatorID uuid.UUID) ([]StockMovement, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT sh.id, sh.radiator_id, sh.warehouse_id, w.code,
		       sh.old_quantity, sh.new_quantity, sh.quantity_change,
		       sh.movement_type, sh.change_type, sh.sale_id, sh.created_at
		FROM stock_history sh
		JOIN warehouses w ON w.id = sh.warehouse_id
		WHERE sh.radiator_id = $1
		ORDER BY sh.created_at DESC, sh.id DESC
	`, radiatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock history: %w", err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		var movementType, changeType string
		if err := rows.Scan(
			&m.ID, &m.RadiatorID, &m.WarehouseID, &m.WarehouseCode,
			&m.OldQuantity, &m.NewQuantity, &m.QuantityChange,
			&movementType, &changeType, &m.SaleID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		m.MovementType = MovementType(movementType)
		if m.ChangeType, err = ParseChangeType(changeType); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// UpdateStock is the manual-override surface: it sets the absolute quantity
// in its own transaction with change type Manual. The radiator and warehouse
// lookups run inside the same transaction, so a concurrent delete still
// surfaces as ErrNotFound rather than a constraint failure.
func (l *StockLedger) UpdateStock(ctx context.Context, radiatorID uuid.UUID, warehouseCode string, quantity int) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM radiators WHERE id = $1)", radiatorID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check radiator: %w", err)
	}
	if !exists {
		return fmt.Errorf("radiator %s: %w", radiatorID, ErrNotFound)
	}

	var warehouseID uuid.UUID
	err = tx.QueryRow(ctx,
		"SELECT id FROM warehouses WHERE code = $1", warehouseCode,
	).Scan(&warehouseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("warehouse %s: %w", warehouseCode, ErrNotFound)
		}
		return fmt.Errorf("failed to resolve warehouse: %w", err)
	}

	if err := l.SetAbsoluteTx(ctx, tx, radiatorID, warehouseID, quantity, ChangeManual); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stock update: %w", err)
	}
	return nil
}

// DecrementTx removes qty units inside the caller's transaction. The current
// quantity is re-read under a row lock at mutation time, which is what closes
// the oversell race between concurrent sales: whichever transaction loses the
// lock re-reads the already-reduced quantity and fails cleanly.
func (l *StockLedger) DecrementTx(ctx context.Context, tx pgx.Tx, radiatorID, warehouseID uuid.UUID,
	qty int, changeType ChangeType, saleID *uuid.UUID) error {

	if qty <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}

	levelID, current, err := l.lockStockRow(ctx, tx, radiatorID, warehouseID)
	if err != nil {
		return err
	}
	if current < qty {
		return &InsufficientStockError{
			RadiatorID:  radiatorID,
			WarehouseID: warehouseID,
			Available:   current,
			Requested:   qty,
		}
	}

	newQty := current - qty
	if err := l.setQuantity(ctx, tx, levelID, newQty); err != nil {
		return err
	}
	return l.appendHistory(ctx, tx, radiatorID, warehouseID, current, newQty, MovementOutgoing, changeType, saleID)
}

// IncrementTx adds qty units inside the caller's transaction. Used by refunds
// and by manual stock increases.
func (l *StockLedger) IncrementTx(ctx context.Context, tx pgx.Tx, radiatorID, warehouseID uuid.UUID,
	qty int, changeType ChangeType, saleID *uuid.UUID) error {

	if qty <= 0 {
		return fmt.Errorf("increment quantity must be positive, got %d", qty)
	}

	levelID, current, err := l.lockStockRow(ctx, tx, radiatorID, warehouseID)
	if err != nil {
		return err
	}

	newQty := current + qty
	if err := l.setQuantity(ctx, tx, levelID, newQty); err != nil {
		return err
	}
	return l.appendHistory(ctx, tx, radiatorID, warehouseID, current, newQty, MovementIncoming, changeType, saleID)
}

// SetAbsoluteTx writes an absolute quantity and records the delta against the
// previous value. Not used by sales; this is the adjustment/manual path.
func (l *StockLedger) SetAbsoluteTx(ctx context.Context, tx pgx.Tx, radiatorID, warehouseID uuid.UUID,
	newQty int, changeType ChangeType) error {

	if newQty < 0 {
		return fmt.Errorf("absolute quantity cannot be negative, got %d", newQty)
	}

	levelID, current, err := l.lockStockRow(ctx, tx, radiatorID, warehouseID)
	if err != nil {
		return err
	}

	movement := MovementIncoming
	if newQty < current {
		movement = MovementOutgoing
	}
	if err := l.setQuantity(ctx, tx, levelID, newQty); err != nil {
		return err
	}
	return l.appendHistory(ctx, tx, radiatorID, warehouseID, current, newQty, movement, changeType, nil)
}

// lockStockRow returns the row id and current quantity for a pair under
// FOR UPDATE, creating the zero row first if the pair has never been stocked.
// The created row participates in the caller's transaction, so a later abort
// removes it again.
func (l *StockLedger) lockStockRow(ctx context.Context, tx pgx.Tx, radiatorID, warehouseID uuid.UUID) (uuid.UUID, int, error) {
	_, err := tx.Exec(ctx, `
		INSERT INTO stock_levels (id, radiator_id, warehouse_id, quantity)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (radiator_id, warehouse_id) DO NOTHING
	`, uuid.New(), radiatorID, warehouseID)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed to ensure stock row: %w", err)
	}

	var levelID uuid.UUID
	var quantity int
	err = tx.QueryRow(ctx, `
		SELECT id, quantity FROM stock_levels
		WHERE radiator_id = $1 AND warehouse_id = $2
		FOR UPDATE
	`, radiatorID, warehouseID).Scan(&levelID, &quantity)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed to lock stock row: %w", err)
	}
	return levelID, quantity, nil
}

func (l *StockLedger) setQuantity(ctx context.Context, tx pgx.Tx, levelID uuid.UUID, quantity int) error {
	_, err := tx.Exec(ctx,
		"UPDATE stock_levels SET quantity = $1, updated_at = NOW() WHERE id = $2",
		quantity, levelID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock level: %w", err)
	}
	return nil
}

func (l *StockLedger) appendHistory(ctx context.Context, tx pgx.Tx, radiatorID, warehouseID uuid.UUID,
	oldQty, newQty int, movement MovementType, change ChangeType, saleID *uuid.UUID) error {

	_, err := tx.Exec(ctx, `
		INSERT INTO stock_history
			(id, radiator_id, warehouse_id, old_quantity, new_quantity, quantity_change,
			 movement_type, change_type, sale_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.New(), radiatorID, warehouseID, oldQty, newQty, newQty-oldQty,
		string(movement), string(change), saleID,
	)
	if err != nil {
		return fmt.Errorf("failed to append stock history: %w", err)
	}
	return nil
}
