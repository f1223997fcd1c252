package client

import (
	"strings"

	"laundromat-backend/models"
)

// State is the dashboard's working copy of the data: every customer and
// every order, orders kept newest first.
type State struct {
	Customers []models.Customer
	Orders    []models.LaundryOrder
}

// NewState builds a State from full fetches and sorts the orders.
func NewState(customers []models.Customer, orders []models.LaundryOrder) *State {
	s := &State{Customers: customers, Orders: orders}
	s.SortOrders()
	return s
}

// SortOrders restores descending date order.
func (s *State) SortOrders() {
	models.SortOrdersByDateDesc(s.Orders)
}

// InsertOrder places order in front of the first cached order whose date is
// not later than its own. It is a linear scan, so an order lands ahead of
// existing orders with the same date.
func (s *State) InsertOrder(order models.LaundryOrder) {
	i := 0
	for i < len(s.Orders) && s.Orders[i].Date.After(order.Date) {
		i++
	}
	s.Orders = append(s.Orders, models.LaundryOrder{})
	copy(s.Orders[i+1:], s.Orders[i:])
	s.Orders[i] = order
}

// AddCustomer appends a newly registered customer.
func (s *State) AddCustomer(customer models.Customer) {
	s.Customers = append(s.Customers, customer)
}

// FilterOrders returns the orders whose customer name or phone contains
// query. The cache is left untouched.
func (s *State) FilterOrders(query string) []models.LaundryOrder {
	return FilterOrders(s.Orders, query)
}

// FilterCustomers is FilterOrders for customers.
func (s *State) FilterCustomers(query string) []models.Customer {
	return FilterCustomers(s.Customers, query)
}

func FilterOrders(orders []models.LaundryOrder, query string) []models.LaundryOrder {
	out := make([]models.LaundryOrder, 0, len(orders))
	for _, o := range orders {
		if o.Customer == nil {
			// orphaned orders only show up unfiltered
			if strings.TrimSpace(query) == "" {
				out = append(out, o)
			}
			continue
		}
		if models.MatchesQuery(o.Customer.Name, o.Customer.PhoneNumber, query) {
			out = append(out, o)
		}
	}
	return out
}

func FilterCustomers(customers []models.Customer, query string) []models.Customer {
	out := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if models.MatchesQuery(c.Name, c.PhoneNumber, query) {
			out = append(out, c)
		}
	}
	return out
}
