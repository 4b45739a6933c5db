package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool used by the store.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists orders in the relational database.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore initializes a store backed by pgxpool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("orders: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

const uniqueViolation = "23505"

// Insert creates a new order row.
func (s *PostgresStore) Insert(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("orders: encode items: %w", err)
	}
	query := `
		INSERT INTO orders (id, order_number, customer_id, status, total_cents, items, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	if err := s.pool.QueryRow(ctx, query,
		o.ID,
		o.OrderNumber,
		o.CustomerID,
		o.Status,
		o.Total,
		items,
		o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("orders: insert: %w", err)
	}
	return nil
}

const orderColumns = `
	o.id, o.order_number, o.customer_id, o.status, o.total_cents, o.items,
	COALESCE(o.notes, ''), o.created_at, o.updated_at,
	COALESCE(c.name, ''), COALESCE(c.phone_number, '')
`

// GetByID returns the order with joined customer fields.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		WHERE o.id = $1
	`
	o, err := scanOrder(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("orders: get by id: %w", err)
	}
	return o, nil
}

// List returns all orders with joined customer fields, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		ORDER BY o.created_at DESC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: iterate: %w", err)
	}
	return out, nil
}

// GetLatestByPhone returns the customer's most recent order.
func (s *PostgresStore) GetLatestByPhone(ctx context.Context, phone string) (*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		JOIN customers c ON o.customer_id = c.id
		WHERE c.phone_number = $1
		ORDER BY o.created_at DESC
		LIMIT 1
	`
	o, err := scanOrder(s.pool.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("orders: latest by phone: %w", err)
	}
	return o, nil
}

// UpdateStatus sets the lifecycle status of an order.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("orders: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o     Order
		items []byte
	)
	if err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.Status,
		&o.Total,
		&items,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.CustomerName,
		&o.CustomerPhone,
	); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	return &o, nil
}
