package customers

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryDirectoryGetOrCreate(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	first, err := dir.GetOrCreateByPhone(ctx, "+1555")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID == "" || first.Phone != "+1555" {
		t.Fatalf("unexpected customer: %+v", first)
	}

	// Same phone returns the same record.
	second, err := dir.GetOrCreateByPhone(ctx, "+1555")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second call created a new record: %s vs %s", second.ID, first.ID)
	}

	if _, err := dir.GetOrCreateByPhone(ctx, ""); !errors.Is(err, ErrMissingPhone) {
		t.Errorf("empty phone error = %v, want ErrMissingPhone", err)
	}
}

func TestMemoryDirectoryGetByPhone(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	if _, err := dir.GetByPhone(ctx, "+1555"); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("missing customer error = %v, want ErrCustomerNotFound", err)
	}

	created, _ := dir.GetOrCreateByPhone(ctx, "+1555")
	got, err := dir.GetByPhone(ctx, "+1555")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("id mismatch: %s vs %s", got.ID, created.ID)
	}
}

func TestMemoryDirectoryUpsert(t *testing.T) {
	dir := NewMemoryDirectory()
	ctx := context.Background()

	c, err := dir.Upsert(ctx, &UpsertCustomerRequest{Phone: "+1555", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if c.Name != "Ada" {
		t.Errorf("name = %q, want Ada", c.Name)
	}

	updated, err := dir.Upsert(ctx, &UpsertCustomerRequest{Phone: "+1555", Name: "Ada L."})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if updated.ID != c.ID {
		t.Errorf("upsert created a second record for the same phone")
	}
	if updated.Name != "Ada L." || updated.Email != "" {
		t.Errorf("attributes must be replaced, got %+v", updated)
	}

	if _, err := dir.Upsert(ctx, &UpsertCustomerRequest{Phone: "   "}); !errors.Is(err, ErrMissingPhone) {
		t.Errorf("blank phone error = %v, want ErrMissingPhone", err)
	}
}
