package app

import (
	"sync"
	"time"

	"github.com/shopmesh/shopmesh/internal/order-service/domain"
)

// Store is the in-memory order record store. Orders are keyed by id; a
// per-user index preserves creation order for listing. Orders are never
// deleted.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Order
	byUser map[string][]string
}

func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*domain.Order),
		byUser: make(map[string][]string),
	}
}

func (s *Store) Insert(order *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[order.ID] = order
	s.byUser[order.UserID] = append(s.byUser[order.UserID], order.ID)
}

func (s *Store) Get(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

// ListByUser returns the user's orders in creation order. An unknown user
// yields an empty list, not an error.
func (s *Store) ListByUser(userID string) []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		cp := *s.byID[id]
		orders = append(orders, &cp)
	}
	return orders
}

// UpdateStatus sets the order's status to any caller-supplied value; no
// transition is rejected. Stamps UpdatedAt.
func (s *Store) UpdateStatus(id string, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	cp := *order
	return &cp, nil
}

// ConfirmIfPending flips a still-pending order to confirmed. Returns false
// when the order is gone or was already moved off pending, in which case the
// deferred confirmation is silently skipped.
func (s *Store) ConfirmIfPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.byID[id]
	if !ok || order.Status != domain.StatusPending {
		return false
	}
	order.Status = domain.StatusConfirmed
	order.UpdatedAt = time.Now().UTC()
	return true
}
