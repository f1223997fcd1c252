package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"laundromat-backend/models"
)

// day offsets into mid-January so that day(0) is still a January date.
func day(d int) time.Time {
	return time.Date(2024, 1, d+10, 0, 0, 0, 0, time.UTC)
}

func orderOn(d int, loads int) models.LaundryOrder {
	return models.LaundryOrder{ID: uuid.New(), Date: day(d), Loads: loads}
}

func dates(orders []models.LaundryOrder) []int {
	out := make([]int, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Date.Day()-10)
	}
	return out
}

func TestInsertOrder_KeepsDescendingDates(t *testing.T) {
	s := &State{}
	s.InsertOrder(orderOn(3, 1))
	s.InsertOrder(orderOn(1, 1))
	s.InsertOrder(orderOn(5, 1))

	assert.Equal(t, []int{5, 3, 1}, dates(s.Orders))
}

func TestInsertOrder_TiesGoFirst(t *testing.T) {
	s := NewState(nil, []models.LaundryOrder{orderOn(5, 1), orderOn(3, 2), orderOn(1, 3)})

	s.InsertOrder(orderOn(3, 9))

	assert.Equal(t, []int{5, 3, 3, 1}, dates(s.Orders))
	assert.Equal(t, 9, s.Orders[1].Loads, "new order lands ahead of the existing one with the same date")
	assert.Equal(t, 2, s.Orders[2].Loads)

	s.InsertOrder(orderOn(9, 4))
	s.InsertOrder(orderOn(0, 5))
	assert.Equal(t, []int{9, 5, 3, 3, 1, 0}, dates(s.Orders))
}

func TestNewState_SortsOrders(t *testing.T) {
	s := NewState(nil, []models.LaundryOrder{orderOn(1, 1), orderOn(5, 1), orderOn(3, 1)})
	assert.Equal(t, []int{5, 3, 1}, dates(s.Orders))
}

func TestFilter(t *testing.T) {
	john := models.Customer{ID: uuid.New(), Name: "John", PhoneNumber: 9025551234}
	joanna := models.Customer{ID: uuid.New(), Name: "Joanna", PhoneNumber: 9025550000}
	mark := models.Customer{ID: uuid.New(), Name: "Mark", PhoneNumber: 7775551111}

	withCustomer := func(o models.LaundryOrder, c models.Customer) models.LaundryOrder {
		o.CustomerID = c.ID
		o.Customer = c.Ref()
		return o
	}
	orphan := orderOn(2, 1)

	s := NewState(
		[]models.Customer{john, joanna, mark},
		[]models.LaundryOrder{
			withCustomer(orderOn(5, 1), john),
			withCustomer(orderOn(4, 1), mark),
			withCustomer(orderOn(3, 1), joanna),
			orphan,
		},
	)

	assert.Equal(t, []models.Customer{john, joanna}, s.FilterCustomers("jO"))
	assert.Equal(t, []models.Customer{mark}, s.FilterCustomers("777"))
	assert.Len(t, s.FilterCustomers(""), 3)

	assert.Equal(t, []int{5, 3}, dates(s.FilterOrders("jo")))
	assert.Equal(t, []int{4}, dates(s.FilterOrders("5551111")))
	assert.Equal(t, []int{5, 4, 3, 2}, dates(s.FilterOrders("")))
	assert.Empty(t, s.FilterOrders("zzz"))

	// filtering never touches the cache
	assert.Len(t, s.Orders, 4)
	assert.Len(t, s.Customers, 3)
}
