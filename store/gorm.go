package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"laundromat-backend/models"
)

// GormStore keeps records in a relational database (postgres or mysql).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tables.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Customer{},
		&models.LaundryOrder{},
		&models.ReminderLog{},
	)
}

func (s *GormStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	const op = "store.gorm.CreateCustomer"

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *GormStore) GetCustomer(ctx context.Context, id uuid.UUID) (models.Customer, error) {
	const op = "store.gorm.GetCustomer"

	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, models.ErrRecordNotFound
		}
		return models.Customer{}, fmt.Errorf("%s: %w", op, err)
	}
	return customer, nil
}

func (s *GormStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	const op = "store.gorm.ListCustomers"

	var customers []models.Customer
	if err := s.db.WithContext(ctx).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customers, nil
}

func (s *GormStore) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	const op = "store.gorm.SearchCustomers"

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.ListCustomers(ctx)
	}
	pattern := "%" + escapeLike(q) + "%"

	var customers []models.Customer
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR "+s.phoneAsText()+" LIKE ?", pattern, pattern).
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customers, nil
}

func (s *GormStore) phoneAsText() string {
	if s.db.Dialector.Name() == "mysql" {
		return "CAST(phone_number AS CHAR)"
	}
	return "CAST(phone_number AS TEXT)"
}

// escapeLike escapes LIKE wildcards; backslash is the default escape
// character in both postgres and mysql.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *GormStore) CreateLaundryOrder(ctx context.Context, order *models.LaundryOrder) error {
	const op = "store.gorm.CreateLaundryOrder"

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// laundryRow is a laundry order joined with its customer's name and phone.
type laundryRow struct {
	models.LaundryOrder `gorm:"embedded"`
	CustomerName        *string
	CustomerPhone       *int64
}

func (r laundryRow) order() models.LaundryOrder {
	o := r.LaundryOrder
	if r.CustomerName != nil {
		ref := &models.CustomerRef{ID: o.CustomerID, Name: *r.CustomerName}
		if r.CustomerPhone != nil {
			ref.PhoneNumber = models.PhoneNumber(*r.CustomerPhone)
		}
		o.Customer = ref
	}
	return o
}

func (s *GormStore) joinedOrders(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("laundry_orders").
		Select("laundry_orders.*, customers.name AS customer_name, customers.phone_number AS customer_phone").
		Joins("LEFT JOIN customers ON customers.id = laundry_orders.customer_id")
}

func scanOrders(tx *gorm.DB) ([]models.LaundryOrder, error) {
	var rows []laundryRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]models.LaundryOrder, 0, len(rows))
	for _, r := range rows {
		orders = append(orders, r.order())
	}
	return orders, nil
}

func (s *GormStore) ListLaundryOrders(ctx context.Context) ([]models.LaundryOrder, error) {
	const op = "store.gorm.ListLaundryOrders"

	orders, err := scanOrders(s.joinedOrders(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *GormStore) ListLaundryOrdersForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.LaundryOrder, error) {
	const op = "store.gorm.ListLaundryOrdersForCustomer"

	orders, err := scanOrders(s.joinedOrders(ctx).Where("laundry_orders.customer_id = ?", customerID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *GormStore) ListPickUpsBetween(ctx context.Context, from, to time.Time) ([]models.LaundryOrder, error) {
	const op = "store.gorm.ListPickUpsBetween"

	orders, err := scanOrders(s.joinedOrders(ctx).
		Where("laundry_orders.pick_up_date BETWEEN ? AND ?", from, to))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *GormStore) CreateReminderLog(ctx context.Context, entry *models.ReminderLog) error {
	const op = "store.gorm.CreateReminderLog"

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *GormStore) ReminderSent(ctx context.Context, orderID uuid.UUID) (bool, error) {
	const op = "store.gorm.ReminderSent"

	var count int64
	err := s.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("order_id = ? AND status = ?", orderID, models.ReminderStatusSent).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count > 0, nil
}

func (s *GormStore) ListReminderLogs(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	const op = "store.gorm.ListReminderLogs"

	tx := s.db.WithContext(ctx).Order("sent_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var logs []models.ReminderLog
	if err := tx.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return logs, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Store = (*GormStore)(nil)
