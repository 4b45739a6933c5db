package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool used by the directory.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDirectory stores customers in the relational database.
type PostgresDirectory struct {
	pool PgxPool
}

// NewPostgresDirectory initializes a directory backed by pgxpool.
func NewPostgresDirectory(pool PgxPool) *PostgresDirectory {
	if pool == nil {
		panic("customers: pgx pool required")
	}
	return &PostgresDirectory{pool: pool}
}

const customerColumns = `id, phone_number, COALESCE(name, ''), COALESCE(email, ''), COALESCE(address, ''), created_at, updated_at`

// GetOrCreateByPhone looks up or creates a customer record. The no-op update
// on conflict lets a single statement return the existing row.
func (d *PostgresDirectory) GetOrCreateByPhone(ctx context.Context, phone string) (*Customer, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}
	query := `
		INSERT INTO customers (id, phone_number)
		VALUES ($1, $2)
		ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number
		RETURNING ` + customerColumns
	row := d.pool.QueryRow(ctx, query, uuid.New(), phone)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("customers: get or create: %w", err)
	}
	return c, nil
}

// GetByPhone returns the customer for the phone number.
func (d *PostgresDirectory) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1`
	row := d.pool.QueryRow(ctx, query, phone)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("customers: get by phone: %w", err)
	}
	return c, nil
}

// Upsert creates or replaces the customer's profile attributes.
func (d *PostgresDirectory) Upsert(ctx context.Context, req *UpsertCustomerRequest) (*Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query := `
		INSERT INTO customers (id, phone_number, name, email, address)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone_number) DO UPDATE
		SET name = EXCLUDED.name,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			updated_at = now()
		RETURNING ` + customerColumns
	row := d.pool.QueryRow(ctx, query, uuid.New(), req.Phone, req.Name, req.Email, req.Address)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("customers: upsert: %w", err)
	}
	return c, nil
}

// List returns all customers, newest first.
func (d *PostgresDirectory) List(ctx context.Context) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC`
	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("customers: scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customers: iterate: %w", err)
	}
	return out, nil
}

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(
		&c.ID,
		&c.Phone,
		&c.Name,
		&c.Email,
		&c.Address,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
