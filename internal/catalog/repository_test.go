package catalog

import (
	"context"
	"testing"
)

func TestCentsDollars(t *testing.T) {
	tests := []struct {
		cents Cents
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{799, "7.99"},
		{1299, "12.99"},
		{3397, "33.97"},
		{10000, "100.00"},
	}
	for _, tt := range tests {
		if got := tt.cents.Dollars(); got != tt.want {
			t.Errorf("Cents(%d).Dollars() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestCentsMul(t *testing.T) {
	if got := Cents(1299).Mul(2); got != 2598 {
		t.Errorf("Mul = %d, want 2598", got)
	}
}

func TestSeededMemoryRepository(t *testing.T) {
	repo := NewSeededMemoryRepository()
	ctx := context.Background()

	products, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(products) != 4 {
		t.Fatalf("expected 4 sample products, got %d", len(products))
	}
	if products[0].Name != "Pizza Margherita" || products[0].UnitPrice != 1299 {
		t.Errorf("unexpected first product: %+v", products[0])
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].ID >= products[i].ID {
			t.Fatal("products must be ordered by id")
		}
	}
}

func TestMemoryRepositoryListActiveSkipsInactive(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Put(Product{ID: 1, Name: "Pizza Margherita", UnitPrice: 1299, Active: true})
	repo.Put(Product{ID: 2, Name: "Retired Special", UnitPrice: 999, Active: false})

	products, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(products) != 1 || products[0].ID != 1 {
		t.Errorf("inactive product leaked into the menu: %+v", products)
	}
}

func TestMemoryRepositoryFindByIDs(t *testing.T) {
	repo := NewSeededMemoryRepository()

	products, err := repo.FindByIDs(context.Background(), []int64{3, 1, 9, 1})
	if err != nil {
		t.Fatalf("find by ids: %v", err)
	}
	// Unknown id 9 is absent, duplicate 1 appears once.
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != 3 || products[1].ID != 1 {
		t.Errorf("unexpected products: %+v", products)
	}
}
