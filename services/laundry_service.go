// services/laundry_service.go
package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"laundromat-backend/metrics"
	"laundromat-backend/models"
	"laundromat-backend/store"
	"laundromat-backend/utils"
)

// CustomerInput is the body of a customer registration.
type CustomerInput struct {
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	PhoneNumber models.PhoneNumber `json:"phoneNumber"`
}

// LaundryOrderInput is the body of an order submission. Numbers may arrive as
// JSON numbers or numeric strings; dates as RFC 3339 or datetime-local values.
type LaundryOrderInput struct {
	DropOffDate string      `json:"dropOffDate"`
	PickUpDate  string      `json:"pickUpDate"`
	Loads       json.Number `json:"loads"`
	Price       json.Number `json:"price"`
}

// LaundryService validates requests and reads/writes customers and orders.
type LaundryService struct {
	store   store.Store
	log     *logrus.Entry
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

// NewLaundryService builds the service. loc is the business time zone used for
// zone-less dates and the CSV export.
func NewLaundryService(s store.Store, log *logrus.Entry, m *metrics.Metrics, loc *time.Location) *LaundryService {
	if loc == nil {
		loc = time.UTC
	}
	return &LaundryService{
		store:   s,
		log:     log.WithField("component", "laundry_service"),
		metrics: m,
		loc:     loc,
		now:     time.Now,
	}
}

// serverError logs a store failure and hides it behind a ServerError.
func (s *LaundryService) serverError(op string, err error) error {
	s.log.WithField("op", op).WithError(err).Error("store operation failed")
	return &models.ServerError{Op: op, Err: err}
}

func (s *LaundryService) CreateCustomer(ctx context.Context, in CustomerInput) (models.Customer, error) {
	const op = "services.LaundryService.CreateCustomer"

	customer := models.Customer{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Address:     strings.TrimSpace(in.Address),
		PhoneNumber: in.PhoneNumber,
		Date:        models.CreationTime(s.now()),
	}
	if err := customer.Validate(); err != nil {
		return models.Customer{}, err
	}

	if err := s.store.CreateCustomer(ctx, &customer); err != nil {
		return models.Customer{}, s.serverError(op, err)
	}

	s.metrics.CustomerCreated()
	s.log.WithField("customer_id", customer.ID).Info("customer created")
	return customer, nil
}

// SearchCustomers matches query against names and phone numbers, ignoring case.
// A blank query returns every customer.
func (s *LaundryService) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	const op = "services.LaundryService.SearchCustomers"

	customers, err := s.store.SearchCustomers(ctx, query)
	if err != nil {
		return nil, s.serverError(op, err)
	}
	return nonNil(customers), nil
}

func (s *LaundryService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	const op = "services.LaundryService.ListCustomers"

	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, s.serverError(op, err)
	}
	return nonNil(customers), nil
}

// ListLaundryOrders returns every order with its customer's name and phone.
// The order of the result is unspecified.
func (s *LaundryService) ListLaundryOrders(ctx context.Context) ([]models.LaundryOrder, error) {
	const op = "services.LaundryService.ListLaundryOrders"

	orders, err := s.store.ListLaundryOrders(ctx)
	if err != nil {
		return nil, s.serverError(op, err)
	}
	return nonNil(orders), nil
}

// CreateLaundryOrder records an order for an existing customer and returns it
// joined with that customer.
func (s *LaundryService) CreateLaundryOrder(ctx context.Context, customerID string, in LaundryOrderInput) (models.LaundryOrder, error) {
	const op = "services.LaundryService.CreateLaundryOrder"

	id, err := parseCustomerID(customerID)
	if err != nil {
		return models.LaundryOrder{}, err
	}
	order, err := s.buildOrder(id, in)
	if err != nil {
		return models.LaundryOrder{}, err
	}

	customer, err := s.getCustomer(ctx, op, id)
	if err != nil {
		return models.LaundryOrder{}, err
	}

	if err := s.store.CreateLaundryOrder(ctx, &order); err != nil {
		return models.LaundryOrder{}, s.serverError(op, err)
	}
	order.Customer = customer.Ref()

	s.metrics.OrderCreated()
	s.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": customer.ID,
	}).Info("laundry order created")
	return order, nil
}

func (s *LaundryService) buildOrder(customerID uuid.UUID, in LaundryOrderInput) (models.LaundryOrder, error) {
	dropOff, err := utils.ParseDateTime("dropOffDate", in.DropOffDate, s.loc)
	if err != nil {
		return models.LaundryOrder{}, err
	}
	pickUp, err := utils.ParseDateTime("pickUpDate", in.PickUpDate, s.loc)
	if err != nil {
		return models.LaundryOrder{}, err
	}
	loads, err := parseLoads(in.Loads)
	if err != nil {
		return models.LaundryOrder{}, err
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return models.LaundryOrder{}, err
	}

	order := models.LaundryOrder{
		ID:          uuid.New(),
		CustomerID:  customerID,
		DropOffDate: dropOff,
		PickUpDate:  pickUp,
		Loads:       loads,
		Price:       price,
		Date:        models.CreationTime(s.now()),
	}
	if err := order.Validate(); err != nil {
		return models.LaundryOrder{}, err
	}
	return order, nil
}

// ListLaundryOrdersForCustomer returns one customer's order history.
func (s *LaundryService) ListLaundryOrdersForCustomer(ctx context.Context, customerID string) ([]models.LaundryOrder, error) {
	const op = "services.LaundryService.ListLaundryOrdersForCustomer"

	id, err := parseCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getCustomer(ctx, op, id); err != nil {
		return nil, err
	}

	orders, err := s.store.ListLaundryOrdersForCustomer(ctx, id)
	if err != nil {
		return nil, s.serverError(op, err)
	}
	return nonNil(orders), nil
}

func (s *LaundryService) getCustomer(ctx context.Context, op string, id uuid.UUID) (models.Customer, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return models.Customer{}, &models.NotFoundError{Resource: "customer", ID: id.String()}
		}
		return models.Customer{}, s.serverError(op, err)
	}
	return customer, nil
}

// csvHeader matches the columns of the dashboard's download.
var csvHeader = []string{"Date", "Name", "Phone Number", "Loads", "Price"}

// ExportLaundryOrdersCSV writes orders matching query, newest first.
func (s *LaundryService) ExportLaundryOrdersCSV(ctx context.Context, w io.Writer, query string) error {
	orders, err := s.ListLaundryOrders(ctx)
	if err != nil {
		return err
	}
	models.SortOrdersByDateDesc(orders)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range orders {
		var name, phone string
		if o.Customer != nil {
			name, phone = o.Customer.Name, o.Customer.PhoneNumber.String()
			if !models.MatchesQuery(o.Customer.Name, o.Customer.PhoneNumber, query) {
				continue
			}
		} else if strings.TrimSpace(query) != "" {
			continue
		}
		record := []string{
			utils.FormatLocal(o.Date, s.loc),
			name,
			phone,
			strconv.Itoa(o.Loads),
			o.Price.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseCustomerID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, models.NewValidationError("customerId", "is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, models.NewValidationError("customerId", "is not a valid id")
	}
	return id, nil
}

func parseLoads(n json.Number) (int, error) {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		return 0, models.NewValidationError("loads", "is required")
	}
	loads, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError("loads", "must be a whole number")
	}
	return loads, nil
}

func parsePrice(n json.Number) (decimal.Decimal, error) {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		return decimal.Decimal{}, models.NewValidationError("price", "is required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, models.NewValidationError("price", "must be a number")
	}
	if !price.Equal(price.Round(2)) {
		return decimal.Decimal{}, models.NewValidationError("price", "must have at most two decimal places")
	}
	return price, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
