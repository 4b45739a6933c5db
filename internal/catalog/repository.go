package catalog

import (
	"context"
	"sort"
	"sync"
)

// Repository defines read access to the product catalog.
type Repository interface {
	// ListActive returns all active products ordered by id.
	ListActive(ctx context.Context) ([]Product, error)
	// FindByIDs returns the products matching the given ids. Ids with no
	// matching product are simply absent from the result.
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
}

// MemoryRepository is an in-memory Repository used in development and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[int64]Product
}

// NewMemoryRepository creates an empty in-memory catalog.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: make(map[int64]Product)}
}

// NewSeededMemoryRepository creates an in-memory catalog preloaded with the
// sample menu.
func NewSeededMemoryRepository() *MemoryRepository {
	r := NewMemoryRepository()
	for _, p := range []Product{
		{ID: 1, Name: "Pizza Margherita", Description: "Classic pizza with tomato, mozzarella, and basil", UnitPrice: 1299, StockQuantity: 50, SKU: "PIZZA-001", Active: true},
		{ID: 2, Name: "Cheeseburger", Description: "Beef patty with cheese, lettuce, and tomato", UnitPrice: 899, StockQuantity: 30, SKU: "BURGER-001", Active: true},
		{ID: 3, Name: "Caesar Salad", Description: "Fresh romaine lettuce with Caesar dressing", UnitPrice: 799, StockQuantity: 25, SKU: "SALAD-001", Active: true},
		{ID: 4, Name: "Pasta Carbonara", Description: "Creamy pasta with bacon and parmesan", UnitPrice: 1499, StockQuantity: 20, SKU: "PASTA-001", Active: true},
	} {
		r.Put(p)
	}
	return r
}

// Put inserts or replaces a product.
func (r *MemoryRepository) Put(p Product) {
	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()
}

// ListActive returns all active products ordered by id.
func (r *MemoryRepository) ListActive(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindByIDs returns the products matching the given ids.
func (r *MemoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
