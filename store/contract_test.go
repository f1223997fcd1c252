package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundromat-backend/models"
)

// base is a fixed UTC instant; every backend round-trips it without zone games.
var base = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newCustomer(t *testing.T, s Store, name string, phone models.PhoneNumber) models.Customer {
	t.Helper()
	c := models.Customer{ID: uuid.New(), Name: name, Address: "1 Main St", PhoneNumber: phone, Date: base}
	require.NoError(t, s.CreateCustomer(context.Background(), &c))
	return c
}

func newOrder(t *testing.T, s Store, customerID uuid.UUID, pickUp time.Time) models.LaundryOrder {
	t.Helper()
	o := models.LaundryOrder{
		ID:          uuid.New(),
		CustomerID:  customerID,
		DropOffDate: pickUp.Add(-time.Hour),
		PickUpDate:  pickUp,
		Loads:       2,
		Price:       decimal.RequireFromString("8.50"),
		Date:        base,
	}
	require.NoError(t, s.CreateLaundryOrder(context.Background(), &o))
	return o
}

func customerIDs(customers []models.Customer) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.ID)
	}
	return out
}

// testStoreContract runs the behaviour every Store must share. newStore
// returns a fresh, empty store.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("customers", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		john := newCustomer(t, s, "John", 9025551234)
		joanna := newCustomer(t, s, "Joanna", 9025550000)
		mark := newCustomer(t, s, "Mark", 7775551111)

		got, err := s.GetCustomer(ctx, john.ID)
		require.NoError(t, err)
		assert.Equal(t, john.ID, got.ID)
		assert.Equal(t, "John", got.Name)
		assert.Equal(t, "1 Main St", got.Address)
		assert.Equal(t, models.PhoneNumber(9025551234), got.PhoneNumber)

		_, err = s.GetCustomer(ctx, uuid.New())
		assert.ErrorIs(t, err, models.ErrRecordNotFound)

		all, err := s.ListCustomers(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{john.ID, joanna.ID, mark.ID}, customerIDs(all))

		found, err := s.SearchCustomers(ctx, "jO")
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{john.ID, joanna.ID}, customerIDs(found))

		found, err = s.SearchCustomers(ctx, "777")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{mark.ID}, customerIDs(found))

		found, err = s.SearchCustomers(ctx, "  ")
		require.NoError(t, err)
		assert.Len(t, found, 3)

		found, err = s.SearchCustomers(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("search is literal", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		newCustomer(t, s, "Ann", 9025551234)
		plus := newCustomer(t, s, "A.n+", 9025550000)

		found, err := s.SearchCustomers(ctx, "a.n+")
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{plus.ID}, customerIDs(found))
	})

	t.Run("orders are joined", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		john := newCustomer(t, s, "John", 9025551234)
		mark := newCustomer(t, s, "Mark", 7775551111)
		o1 := newOrder(t, s, john.ID, base.Add(time.Hour))
		newOrder(t, s, mark.ID, base.Add(5*time.Hour))

		orders, err := s.ListLaundryOrders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		for _, o := range orders {
			require.NotNil(t, o.Customer)
			assert.Equal(t, o.CustomerID, o.Customer.ID)
			assert.Equal(t, 2, o.Loads)
			assert.True(t, decimal.RequireFromString("8.50").Equal(o.Price), "price %s", o.Price)
		}

		history, err := s.ListLaundryOrdersForCustomer(ctx, john.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, o1.ID, history[0].ID)
		require.NotNil(t, history[0].Customer)
		assert.Equal(t, "John", history[0].Customer.Name)
		assert.Equal(t, models.PhoneNumber(9025551234), history[0].Customer.PhoneNumber)
		assert.True(t, o1.PickUpDate.Equal(history[0].PickUpDate))

		none, err := s.ListLaundryOrdersForCustomer(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)

		due, err := s.ListPickUpsBetween(ctx, base, base.Add(2*time.Hour))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, o1.ID, due[0].ID)
		require.NotNil(t, due[0].Customer)
		assert.Equal(t, "John", due[0].Customer.Name)
	})

	t.Run("order without customer", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		orphan := newOrder(t, s, uuid.New(), base)

		orders, err := s.ListLaundryOrders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, orphan.ID, orders[0].ID)
		assert.Nil(t, orders[0].Customer)
	})

	t.Run("reminder logs", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		orderID := uuid.New()

		failed := &models.ReminderLog{
			OrderID: orderID, CustomerID: uuid.New(),
			Status: models.ReminderStatusFailed, Channel: models.ReminderChannelSMS,
			SentAt: base,
		}
		require.NoError(t, s.CreateReminderLog(ctx, failed))
		assert.NotEqual(t, uuid.Nil, failed.ID)

		sent, err := s.ReminderSent(ctx, orderID)
		require.NoError(t, err)
		assert.False(t, sent, "failed attempts do not count")

		entry := &models.ReminderLog{
			OrderID: orderID, CustomerID: failed.CustomerID,
			Status: models.ReminderStatusSent, Channel: models.ReminderChannelSMS,
			SentAt: base.Add(time.Minute),
		}
		require.NoError(t, s.CreateReminderLog(ctx, entry))

		sent, err = s.ReminderSent(ctx, orderID)
		require.NoError(t, err)
		assert.True(t, sent)

		sent, err = s.ReminderSent(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, sent)

		logs, err := s.ListReminderLogs(ctx, 0)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, entry.ID, logs[0].ID, "newest first")
		assert.Equal(t, models.ReminderStatusSent, logs[0].Status)

		logs, err = s.ListReminderLogs(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
