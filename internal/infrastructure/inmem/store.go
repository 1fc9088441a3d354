// Package inmem holds mutex-guarded repositories with the same
// contract as the postgres ones: per-order serialization, unique
// idempotency keys, one pending entry per order and type. Usecase
// tests run against it without a database.
package inmem

import (
	"fmt"
	"sync"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
)

type Store struct {
	mu      sync.Mutex
	orders  map[string]*domain.Order
	entries map[string]*domain.Transaction
	byKey   map[string]string // idempotency key -> entry id
}

func NewStore() *Store {
	return &Store{
		orders:  make(map[string]*domain.Order),
		entries: make(map[string]*domain.Transaction),
		byKey:   make(map[string]string),
	}
}

func (s *Store) Orders() *OrderRepository { return &OrderRepository{store: s} }
func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{store: s} }

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	return &c
}

func copyEntry(e *domain.Transaction) *domain.Transaction {
	c := *e
	if e.SettledAt != nil {
		t := *e.SettledAt
		c.SettledAt = &t
	}
	return &c
}

type OrderRepository struct {
	store *Store
}

func (r *OrderRepository) CreateOrder(order *domain.Order) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return fmt.Errorf("%w: order %s already exists", domain.ErrConflict, order.ID)
	}
	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *OrderRepository) GetOrderByID(orderID string) (*domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}
	return copyOrder(order), nil
}

func (r *OrderRepository) ListByFreelancerID(freelancerID string) ([]*domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []*domain.Order
	for _, order := range s.orders {
		if order.FreelancerID == freelancerID {
			orders = append(orders, copyOrder(order))
		}
	}
	return orders, nil
}

func (r *OrderRepository) FindExpiredUnpaid(now time.Time) ([]*domain.Order, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []*domain.Order
	for _, order := range s.orders {
		if order.FulfillmentStatus == domain.FulfillmentPending &&
			order.EscrowStatus == domain.EscrowNone &&
			!order.ExpiresAt.After(now) {
			orders = append(orders, copyOrder(order))
		}
	}
	return orders, nil
}

func (r *OrderRepository) WithOrder(orderID string, apply func(order *domain.Order) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, orderID)
	}

	order := copyOrder(stored)
	if err := apply(order); err != nil {
		return err
	}
	order.UpdatedAt = time.Now()
	s.orders[orderID] = order
	return nil
}

type LedgerRepository struct {
	store *Store
}

func (r *LedgerRepository) AppendEntry(entry *domain.Transaction, guard func(order *domain.Order) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[entry.IdempotencyKey]; ok {
		return fmt.Errorf("%w: idempotency key %s already used", domain.ErrConflict, entry.IdempotencyKey)
	}

	var order *domain.Order
	if entry.OrderID != "" {
		stored, ok := s.orders[entry.OrderID]
		if !ok {
			return fmt.Errorf("%w: order %s", domain.ErrNotFound, entry.OrderID)
		}
		for _, existing := range s.entries {
			if existing.OrderID == entry.OrderID &&
				existing.Type == entry.Type &&
				existing.Status == domain.TxPending {
				return fmt.Errorf("%w: order %s already has a pending %s entry",
					domain.ErrConflict, entry.OrderID, entry.Type)
			}
		}
		order = copyOrder(stored)
	}

	if err := guard(order); err != nil {
		return err
	}

	s.entries[entry.ID] = copyEntry(entry)
	s.byKey[entry.IdempotencyKey] = entry.ID
	if order != nil {
		order.UpdatedAt = time.Now()
		s.orders[order.ID] = order
	}
	return nil
}

func (r *LedgerRepository) AppendPayoutEntry(entry *domain.Transaction, guard func(history []*domain.Transaction) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[entry.IdempotencyKey]; ok {
		return fmt.Errorf("%w: idempotency key %s already used", domain.ErrConflict, entry.IdempotencyKey)
	}

	var history []*domain.Transaction
	for _, existing := range s.entries {
		if existing.FreelancerID == entry.FreelancerID {
			history = append(history, copyEntry(existing))
		}
	}
	sortByCreatedAt(history)

	if err := guard(history); err != nil {
		return err
	}

	s.entries[entry.ID] = copyEntry(entry)
	s.byKey[entry.IdempotencyKey] = entry.ID
	return nil
}

func (r *LedgerRepository) SettleEntry(entryID string, apply func(order *domain.Order, entry *domain.Transaction) error) (*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
	}
	entry := copyEntry(stored)

	if !entry.Pending() {
		return entry, fmt.Errorf("%w: entry %s is %s", domain.ErrAlreadyProcessed, entry.ID, entry.Status)
	}

	var order *domain.Order
	if entry.OrderID != "" {
		storedOrder, ok := s.orders[entry.OrderID]
		if !ok {
			return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, entry.OrderID)
		}
		order = copyOrder(storedOrder)
	}

	if err := apply(order, entry); err != nil {
		return nil, err
	}

	s.entries[entry.ID] = copyEntry(entry)
	if order != nil {
		order.UpdatedAt = time.Now()
		s.orders[order.ID] = order
	}
	return entry, nil
}

func (r *LedgerRepository) SetGatewayRef(entryID, gatewayRef string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok {
		return fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
	}
	entry.GatewayRef = gatewayRef
	return nil
}

func (r *LedgerRepository) GetEntryByID(entryID string) (*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entryID)
	}
	return copyEntry(entry), nil
}

func (r *LedgerRepository) GetEntryByIdempotencyKey(key string) (*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, ok := s.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: idempotency key %s", domain.ErrNotFound, key)
	}
	return copyEntry(s.entries[entryID]), nil
}

func (r *LedgerRepository) ListByOrderID(orderID string) ([]*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*domain.Transaction
	for _, entry := range s.entries {
		if entry.OrderID == orderID {
			entries = append(entries, copyEntry(entry))
		}
	}
	sortByCreatedAt(entries)
	return entries, nil
}

func (r *LedgerRepository) ListByFreelancerID(freelancerID string) ([]*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*domain.Transaction
	for _, entry := range s.entries {
		if entry.FreelancerID == freelancerID {
			entries = append(entries, copyEntry(entry))
		}
	}
	sortByCreatedAt(entries)
	return entries, nil
}

func (r *LedgerRepository) FindStalePending(olderThan time.Time) ([]*domain.Transaction, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []*domain.Transaction
	for _, entry := range s.entries {
		if entry.Status == domain.TxPending && !entry.CreatedAt.After(olderThan) {
			entries = append(entries, copyEntry(entry))
		}
	}
	return entries, nil
}

func sortByCreatedAt(entries []*domain.Transaction) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].CreatedAt.Before(entries[j-1].CreatedAt); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}
