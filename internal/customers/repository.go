package customers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Directory defines customer storage keyed by phone number.
type Directory interface {
	// GetOrCreateByPhone looks up a customer and creates a bare record on
	// first contact. Idempotent.
	GetOrCreateByPhone(ctx context.Context, phone string) (*Customer, error)
	// GetByPhone returns ErrCustomerNotFound when no record exists.
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	// Upsert creates or replaces the customer's profile attributes.
	Upsert(ctx context.Context, req *UpsertCustomerRequest) (*Customer, error)
	// List returns all customers, newest first.
	List(ctx context.Context) ([]Customer, error)
}

// MemoryDirectory is an in-memory Directory used in development and tests.
type MemoryDirectory struct {
	mu      sync.RWMutex
	byPhone map[string]*Customer
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{byPhone: make(map[string]*Customer)}
}

// GetOrCreateByPhone looks up or creates a customer record.
func (d *MemoryDirectory) GetOrCreateByPhone(ctx context.Context, phone string) (*Customer, error) {
	if phone == "" {
		return nil, ErrMissingPhone
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.byPhone[phone]; ok {
		copied := *c
		return &copied, nil
	}
	now := time.Now().UTC()
	c := &Customer{
		ID:        uuid.NewString(),
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.byPhone[phone] = c
	copied := *c
	return &copied, nil
}

// GetByPhone returns the customer for the phone number.
func (d *MemoryDirectory) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.byPhone[phone]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	copied := *c
	return &copied, nil
}

// Upsert creates or replaces the customer's profile attributes.
func (d *MemoryDirectory) Upsert(ctx context.Context, req *UpsertCustomerRequest) (*Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now().UTC()
	c, ok := d.byPhone[req.Phone]
	if !ok {
		c = &Customer{ID: uuid.NewString(), Phone: req.Phone, CreatedAt: now}
		d.byPhone[req.Phone] = c
	}
	c.Name = req.Name
	c.Email = req.Email
	c.Address = req.Address
	c.UpdatedAt = now
	copied := *c
	return &copied, nil
}

// List returns all customers, newest first.
func (d *MemoryDirectory) List(ctx context.Context) ([]Customer, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Customer, 0, len(d.byPhone))
	for _, c := range d.byPhone {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
