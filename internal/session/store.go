// Package session holds the per-customer pending order proposal. A customer
// has at most one session at any time; it lives until confirmed or cancelled.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
)

// Session is a pending, unconfirmed order proposal.
type Session struct {
	Items     []orders.LineItem `json:"items"`
	Total     catalog.Cents     `json:"total_cents"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store keeps at most one session per customer phone number.
type Store interface {
	// Set overwrites any existing session unconditionally.
	Set(ctx context.Context, phone string, s Session) error
	// Get returns the session and whether one exists.
	Get(ctx context.Context, phone string) (Session, bool, error)
	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, phone string) error
}

// MemoryStore is the default in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Set overwrites any existing session.
func (s *MemoryStore) Set(ctx context.Context, phone string, sess Session) error {
	s.mu.Lock()
	s.sessions[phone] = sess
	s.mu.Unlock()
	return nil
}

// Get returns the session for the phone number.
func (s *MemoryStore) Get(ctx context.Context, phone string) (Session, bool, error) {
	s.mu.RLock()
	sess, ok := s.sessions[phone]
	s.mu.RUnlock()
	return sess, ok, nil
}

// Delete removes the session. Idempotent.
func (s *MemoryStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	delete(s.sessions, phone)
	s.mu.Unlock()
	return nil
}
