// Package store persists customers, laundry orders and reminder logs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"laundromat-backend/models"
)

// Store is the data store behind the laundry service. Lookups that match
// nothing return models.ErrRecordNotFound.
type Store interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	SearchCustomers(ctx context.Context, query string) ([]models.Customer, error)

	CreateLaundryOrder(ctx context.Context, order *models.LaundryOrder) error
	// ListLaundryOrders returns every order joined with its customer.
	ListLaundryOrders(ctx context.Context) ([]models.LaundryOrder, error)
	ListLaundryOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.LaundryOrder, error)
	// ListPickUpsBetween returns joined orders with from <= pickUpDate <= to.
	ListPickUpsBetween(ctx context.Context, from, to time.Time) ([]models.LaundryOrder, error)

	CreateReminderLog(ctx context.Context, entry *models.ReminderLog) error
	// ReminderSent reports whether a successful reminder was logged for the order.
	ReminderSent(ctx context.Context, orderID uuid.UUID) (bool, error)
	// ListReminderLogs returns at most limit entries, newest first. limit <= 0 means all.
	ListReminderLogs(ctx context.Context, limit int) ([]models.ReminderLog, error)

	Ping(ctx context.Context) error
	Close() error
}
