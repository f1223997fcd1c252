package client

import (
	"context"

	"github.com/google/uuid"

	"laundromat-backend/models"
	"laundromat-backend/services"
)

// Session pairs a logged in Client with the State it keeps current.
type Session struct {
	client *Client
	State  *State
}

func NewSession(c *Client) *Session {
	return &Session{client: c, State: &State{}}
}

// Load replaces the state with full fetches of customers and orders.
func (s *Session) Load(ctx context.Context) error {
	customers, err := s.client.ListCustomers(ctx)
	if err != nil {
		return err
	}
	orders, err := s.client.ListLaundryOrders(ctx)
	if err != nil {
		return err
	}
	s.State = NewState(customers, orders)
	return nil
}

// AddCustomer registers a customer and appends it to the state.
func (s *Session) AddCustomer(ctx context.Context, in services.CustomerInput) (models.Customer, error) {
	customer, err := s.client.CreateCustomer(ctx, in)
	if err != nil {
		return models.Customer{}, err
	}
	s.State.AddCustomer(customer)
	return customer, nil
}

// AddLaundryOrder submits an order and inserts the joined result in date
// order. On failure the state is left as it was.
func (s *Session) AddLaundryOrder(ctx context.Context, customerID uuid.UUID, in services.LaundryOrderInput) (models.LaundryOrder, error) {
	order, err := s.client.CreateLaundryOrder(ctx, customerID, in)
	if err != nil {
		return models.LaundryOrder{}, err
	}
	s.State.InsertOrder(order)
	return order, nil
}
