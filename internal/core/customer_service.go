package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService is the customer directory.
type CustomerService interface {
	// CustomerExists reports whether the customer exists and is active.
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	CreateCustomer(ctx context.Context, c Customer) (*Customer, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1 AND is_active = true)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer: %w", err)
	}
	return exists, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, phone, company, address, is_active, created_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Company, &c.Address, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return &c, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, phone, company, address, is_active, created_at
		FROM customers
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
			&c.Company, &c.Address, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *customerService) CreateCustomer(ctx context.Context, c Customer) (*Customer, error) {
	c.ID = uuid.New()
	c.IsActive = true
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (id, first_name, last_name, email, phone, company, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Company, c.Address, c.IsActive).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &c, nil
}
