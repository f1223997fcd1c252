package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"laundromat-backend/models"
)

// memoryStore keeps everything in process memory. Used for local runs and tests.
type memoryStore struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]models.Customer
	// insertion order, so listings are stable
	customerIDs []uuid.UUID
	orders      []models.LaundryOrder
	reminders   []models.ReminderLog
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		customers: make(map[uuid.UUID]models.Customer),
	}
}

func (s *memoryStore) CreateCustomer(_ context.Context, customer *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if _, exists := s.customers[customer.ID]; !exists {
		s.customerIDs = append(s.customerIDs, customer.ID)
	}
	s.customers[customer.ID] = *customer
	return nil
}

func (s *memoryStore) GetCustomer(_ context.Context, id uuid.UUID) (models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return models.Customer{}, models.ErrRecordNotFound
	}
	return customer, nil
}

func (s *memoryStore) ListCustomers(_ context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Customer, 0, len(s.customerIDs))
	for _, id := range s.customerIDs {
		result = append(result, s.customers[id])
	}
	return result, nil
}

func (s *memoryStore) SearchCustomers(_ context.Context, query string) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Customer, 0)
	for _, id := range s.customerIDs {
		c := s.customers[id]
		if models.MatchesQuery(c.Name, c.PhoneNumber, query) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *memoryStore) CreateLaundryOrder(_ context.Context, order *models.LaundryOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	stored := *order
	stored.Customer = nil
	s.orders = append(s.orders, stored)
	return nil
}

func (s *memoryStore) ListLaundryOrders(_ context.Context) ([]models.LaundryOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.joined(func(models.LaundryOrder) bool { return true }), nil
}

func (s *memoryStore) ListLaundryOrdersForCustomer(_ context.Context, customerID uuid.UUID) ([]models.LaundryOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.joined(func(o models.LaundryOrder) bool { return o.CustomerID == customerID }), nil
}

func (s *memoryStore) ListPickUpsBetween(_ context.Context, from, to time.Time) ([]models.LaundryOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.joined(func(o models.LaundryOrder) bool {
		return !o.PickUpDate.Before(from) && !o.PickUpDate.After(to)
	}), nil
}

// joined must be called with the read lock held.
func (s *memoryStore) joined(keep func(models.LaundryOrder) bool) []models.LaundryOrder {
	result := make([]models.LaundryOrder, 0)
	for _, o := range s.orders {
		if !keep(o) {
			continue
		}
		if c, ok := s.customers[o.CustomerID]; ok {
			o.Customer = c.Ref()
		}
		result = append(result, o)
	}
	return result
}

func (s *memoryStore) CreateReminderLog(_ context.Context, entry *models.ReminderLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.reminders = append(s.reminders, *entry)
	return nil
}

func (s *memoryStore) ReminderSent(_ context.Context, orderID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reminders {
		if r.OrderID == orderID && r.Status == models.ReminderStatusSent {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) ListReminderLogs(_ context.Context, limit int) ([]models.ReminderLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.ReminderLog, 0, len(s.reminders))
	for i := len(s.reminders) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		result = append(result, s.reminders[i])
	}
	return result, nil
}

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }

var _ Store = (*memoryStore)(nil)
