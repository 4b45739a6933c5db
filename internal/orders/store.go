package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists orders.
type Store interface {
	// Insert creates a new order row. Returns ErrDuplicateOrderNumber when
	// the order number is already taken, distinct from other failures.
	Insert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	// GetLatestByPhone returns the customer's most recent order or
	// ErrOrderNotFound.
	GetLatestByPhone(ctx context.Context, phone string) (*Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// MemoryStore is an in-memory Store used in development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*Order
	byNumber map[string]struct{}
}

// NewMemoryStore creates an empty in-memory order store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]*Order),
		byNumber: make(map[string]struct{}),
	}
}

// Insert creates a new order.
func (s *MemoryStore) Insert(ctx context.Context, o *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byNumber[o.OrderNumber]; taken {
		return ErrDuplicateOrderNumber
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	copied := *o
	s.byID[o.ID] = &copied
	s.byNumber[o.OrderNumber] = struct{}{}
	return nil
}

// GetByID returns the order with the given id.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

// List returns all orders, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetLatestByPhone returns the most recent order for the phone number.
func (s *MemoryStore) GetLatestByPhone(ctx context.Context, phone string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Order
	for _, o := range s.byID {
		if o.CustomerPhone != phone {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, ErrOrderNotFound
	}
	copied := *latest
	return &copied, nil
}

// UpdateStatus sets the lifecycle status of an order.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}
