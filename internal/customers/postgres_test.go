package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func customerRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "phone_number", "name", "email", "address", "created_at", "updated_at"})
}

func TestPostgresGetOrCreateByPhone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO customers").
		WithArgs(pgxmock.AnyArg(), "+1555").
		WillReturnRows(customerRows().AddRow("c-1", "+1555", "", "", "", now, now))

	dir := NewPostgresDirectory(mock)
	c, err := dir.GetOrCreateByPhone(context.Background(), "+1555")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if c.ID != "c-1" || c.Phone != "+1555" {
		t.Errorf("unexpected customer: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresGetOrCreateRequiresPhone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	dir := NewPostgresDirectory(mock)
	if _, err := dir.GetOrCreateByPhone(context.Background(), ""); !errors.Is(err, ErrMissingPhone) {
		t.Errorf("error = %v, want ErrMissingPhone", err)
	}
}

func TestPostgresGetByPhoneNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT .* FROM customers WHERE phone_number").
		WithArgs("+1555").
		WillReturnError(pgx.ErrNoRows)

	dir := NewPostgresDirectory(mock)
	if _, err := dir.GetByPhone(context.Background(), "+1555"); !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("error = %v, want ErrCustomerNotFound", err)
	}
}

func TestPostgresUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO customers").
		WithArgs(pgxmock.AnyArg(), "+1555", "Ada", "ada@example.com", "1 Main St").
		WillReturnRows(customerRows().AddRow("c-1", "+1555", "Ada", "ada@example.com", "1 Main St", now, now))

	dir := NewPostgresDirectory(mock)
	c, err := dir.Upsert(context.Background(), &UpsertCustomerRequest{
		Phone:   "+1555",
		Name:    "Ada",
		Email:   "ada@example.com",
		Address: "1 Main St",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if c.Name != "Ada" || c.Address != "1 Main St" {
		t.Errorf("unexpected customer: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
