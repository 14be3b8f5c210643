package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Receipt header constants.
const (
	companyName    = "RadiatorStock NZ"
	companyAddress = "123 Main Street, Auckland, New Zealand"
	companyPhone   = "+64 9 123 4567"
	companyEmail   = "sales@radiatorstock.co.nz"
)

// Narrow directory interfaces the engine consumes. The concrete services in
// this package satisfy them; tests may substitute their own.
type (
	CustomerDirectory interface {
		CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	}
	WarehouseDirectory interface {
		WarehouseExists(ctx context.Context, id uuid.UUID) (bool, error)
	}
	RadiatorDirectory interface {
		RadiatorExists(ctx context.Context, id uuid.UUID) (bool, error)
	}
	UserDirectory interface {
		GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	}
)

// SaleService owns the sale aggregate and its state machine:
//
//	(none) → Completed → {Cancelled | Refunded}, both terminal.
//
// Stock consumption and restoration go through the StockLedger inside one
// transaction per operation, so a sale and its movements commit atomically.
type SaleService interface {
	CreateSale(ctx context.Context, input CreateSaleInput) (*Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context) ([]SaleSummary, error)
	ListSalesByDateRange(ctx context.Context, from, to time.Time) ([]SaleSummary, error)
	GetReceipt(ctx context.Context, id uuid.UUID) (*Receipt, error)
	CancelSale(ctx context.Context, id uuid.UUID) error
	RefundSale(ctx context.Context, id uuid.UUID) (*Sale, error)
}

type saleService struct {
	pool       *pgxpool.Pool
	ledger     *StockLedger
	customers  CustomerDirectory
	warehouses WarehouseDirectory
	radiators  RadiatorDirectory
	users      UserDirectory
}

func NewSaleService(pool *pgxpool.Pool, ledger *StockLedger,
	customers CustomerDirectory, warehouses WarehouseDirectory,
	radiators RadiatorDirectory, users UserDirectory) SaleService {
	return &saleService{
		pool:       pool,
		ledger:     ledger,
		customers:  customers,
		warehouses: warehouses,
		radiators:  radiators,
		users:      users,
	}
}

// CreateSale validates the request, then consumes stock for every line and
// persists the sale as one atomic unit. Any insufficient line aborts the whole
// unit; no partial decrement is ever observable.
//
// Unit prices are accepted verbatim from the caller with no cross-check
// against catalog pricing. That trust boundary is inherited deliberately.
func (s *saleService) CreateSale(ctx context.Context, input CreateSaleInput) (*Sale, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptySale
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: quantity must be positive, got %d", i+1, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("item %d: unit price cannot be negative", i+1)
		}
	}

	// Directory validation happens before the transactional critical section:
	// no lookup I/O once rows are locked.
	ok, err := s.customers.CustomerExists(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", input.CustomerID, ErrInvalidCustomer)
	}
	if _, err := s.users.GetUser(ctx, input.UserID); err != nil {
		return nil, err
	}
	for i, item := range input.Items {
		if ok, err = s.radiators.RadiatorExists(ctx, item.RadiatorID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("item %d: radiator %s: %w", i+1, item.RadiatorID, ErrNotFound)
		}
		if ok, err = s.warehouses.WarehouseExists(ctx, item.WarehouseID); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("item %d: warehouse %s: %w", i+1, item.WarehouseID, ErrNotFound)
		}
	}

	// The generator's uniqueness is only enforced reactively by the unique
	// index; on a collision, retry once with a fresh number before surfacing.
	saleID, err := s.createSaleTx(ctx, input, NextSaleNumber())
	if errors.Is(err, ErrDuplicateSaleNumber) {
		saleID, err = s.createSaleTx(ctx, input, NextSaleNumber())
	}
	if err != nil {
		return nil, err
	}
	return s.GetSale(ctx, saleID)
}

func (s *saleService) createSaleTx(ctx context.Context, input CreateSaleInput, saleNumber string) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	saleID := uuid.New()

	// Decrement in input order. The ledger re-checks availability under a row
	// lock, so a concurrent sale that got there first makes this one fail and
	// roll back rather than oversell.
	for _, item := range input.Items {
		if err := s.ledger.DecrementTx(ctx, tx, item.RadiatorID, item.WarehouseID,
			item.Quantity, ChangeSale, &saleID); err != nil {
			return uuid.Nil, err
		}
	}

	subTotal, taxAmount, totalAmount := SaleTotals(input.Items)

	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, sale_number, customer_id, user_id, sub_total, tax_amount,
			total_amount, payment_method, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, saleID, saleNumber, input.CustomerID, input.UserID, subTotal, taxAmount,
		totalAmount, input.PaymentMethod, input.Notes, int(SaleCompleted))
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("sale number %s: %w", saleNumber, ErrDuplicateSaleNumber)
		}
		return uuid.Nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, item := range input.Items {
		totalPrice := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, radiator_id, warehouse_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New(), saleID, item.RadiatorID, item.WarehouseID, item.Quantity, item.UnitPrice, totalPrice)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	return saleID, nil
}

// CancelSale voids a completed sale administratively. It deliberately does not
// touch the ledger: stock consumed at sale time stays consumed. Restoring
// stock is what RefundSale is for, and the asymmetry is intentional.
func (s *saleService) CancelSale(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.lockSaleForTransition(ctx, tx, id, SaleCancelled); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"UPDATE sales SET status = $1 WHERE id = $2", int(SaleCancelled), id); err != nil {
		return fmt.Errorf("failed to cancel sale: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}

// RefundSale restores exactly the quantities the sale consumed, item by item,
// and marks the sale Refunded — all in one transaction. Interim movements on
// the same stock rows from unrelated sales are irrelevant: the increments are
// based on the original sale items, not on any remembered stock snapshot.
func (s *saleService) RefundSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.lockSaleForTransition(ctx, tx, id, SaleRefunded); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		"SELECT radiator_id, warehouse_id, quantity FROM sale_items WHERE sale_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	type refundLine struct {
		radiatorID  uuid.UUID
		warehouseID uuid.UUID
		quantity    int
	}
	var lines []refundLine
	for rows.Next() {
		var l refundLine
		if err := rows.Scan(&l.radiatorID, &l.warehouseID, &l.quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}

	for _, l := range lines {
		if err := s.ledger.IncrementTx(ctx, tx, l.radiatorID, l.warehouseID,
			l.quantity, ChangeRefund, &id); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx,
		"UPDATE sales SET status = $1 WHERE id = $2", int(SaleRefunded), id); err != nil {
		return nil, fmt.Errorf("failed to mark sale refunded: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit refund: %w", err)
	}
	return s.GetSale(ctx, id)
}

// lockSaleForTransition locks the sale header row and re-checks the status
// guard under the lock, closing the race between two concurrent terminal
// transitions on the same sale.
func (s *saleService) lockSaleForTransition(ctx context.Context, tx pgx.Tx, id uuid.UUID, target SaleStatus) (SaleStatus, error) {
	var statusInt int
	err := tx.QueryRow(ctx,
		"SELECT status FROM sales WHERE id = $1 FOR UPDATE", id,
	).Scan(&statusInt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to lock sale %s: %w", id, err)
	}

	status := SaleStatus(statusInt)
	if !status.CanTransition(target) {
		return status, fmt.Errorf("sale %s is %s: %w", id, status, ErrInvalidStateTransition)
	}
	return status, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	var sale Sale
	var statusInt int
	err := s.pool.QueryRow(ctx, `
		SELECT s.id, s.sale_number, s.customer_id, c.first_name || ' ' || c.last_name,
		       s.user_id, u.username, s.sub_total, s.tax_amount, s.total_amount,
		       s.payment_method, s.notes, s.status, s.sale_date, s.created_at
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`, id).Scan(
		&sale.ID, &sale.SaleNumber, &sale.CustomerID, &sale.CustomerName,
		&sale.UserID, &sale.ProcessedByName, &sale.SubTotal, &sale.TaxAmount, &sale.TotalAmount,
		&sale.PaymentMethod, &sale.Notes, &statusInt, &sale.SaleDate, &sale.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch sale %s: %w", id, err)
	}
	sale.Status = SaleStatus(statusInt)

	rows, err := s.pool.Query(ctx, `
		SELECT si.id, si.sale_id, si.radiator_id, r.code, r.name,
		       si.warehouse_id, w.code, si.quantity, si.unit_price, si.total_price
		FROM sale_items si
		JOIN radiators r ON r.id = si.radiator_id
		JOIN warehouses w ON w.id = si.warehouse_id
		WHERE si.sale_id = $1
		ORDER BY si.created_at, si.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.RadiatorID, &item.RadiatorCode, &item.RadiatorName,
			&item.WarehouseID, &item.WarehouseCode, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}
	return &sale, rows.Err()
}

func (s *saleService) ListSales(ctx context.Context) ([]SaleSummary, error) {
	return s.listSales(ctx, "", nil)
}

func (s *saleService) ListSalesByDateRange(ctx context.Context, from, to time.Time) ([]SaleSummary, error) {
	return s.listSales(ctx, "WHERE s.sale_date >= $1 AND s.sale_date <= $2", []any{from, to})
}

func (s *saleService) listSales(ctx context.Context, where string, args []any) ([]SaleSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.sale_number, c.first_name || ' ' || c.last_name, u.username,
		       s.total_amount, s.payment_method, s.status, s.sale_date,
		       (SELECT COUNT(*) FROM sale_items si WHERE si.sale_id = s.id)
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		JOIN users u ON u.id = s.user_id
		`+where+`
		ORDER BY s.sale_date DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []SaleSummary
	for rows.Next() {
		var sum SaleSummary
		var statusInt int
		if err := rows.Scan(
			&sum.ID, &sum.SaleNumber, &sum.CustomerName, &sum.ProcessedByName,
			&sum.TotalAmount, &sum.PaymentMethod, &statusInt, &sum.SaleDate, &sum.ItemCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sum.Status = SaleStatus(statusInt)
		sales = append(sales, sum)
	}
	return sales, rows.Err()
}

func (s *saleService) GetReceipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		Sale:           sale,
		CompanyName:    companyName,
		CompanyAddress: companyAddress,
		CompanyPhone:   companyPhone,
		CompanyEmail:   companyEmail,
	}, nil
}

// isUniqueViolation reports a Postgres unique-constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
