package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundromat-backend/models"
	"laundromat-backend/store"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func halifax(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Halifax")
	require.NoError(t, err)
	return loc
}

func newTestService(t *testing.T) (*LaundryService, store.Store) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewLaundryService(s, testLogger(), nil, halifax(t)), s
}

func mustCreateCustomer(t *testing.T, svc *LaundryService, name string, phone models.PhoneNumber) models.Customer {
	t.Helper()
	c, err := svc.CreateCustomer(context.Background(), CustomerInput{Name: name, Address: "12 Water St", PhoneNumber: phone})
	require.NoError(t, err)
	return c
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, field, ve.Field)
}

func TestCreateCustomer(t *testing.T) {
	svc, s := newTestService(t)
	svc.now = func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }

	first := mustCreateCustomer(t, svc, "John Smith", 9025551234)
	second := mustCreateCustomer(t, svc, "John Smith", 9025551234)

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "John Smith", first.Name)
	assert.Equal(t, "12 Water St", first.Address)
	assert.Equal(t, models.PhoneNumber(9025551234), first.PhoneNumber)
	assert.Equal(t, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), first.Date)

	stored, err := s.GetCustomer(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestCreateCustomer_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		in    CustomerInput
		field string
	}{
		{"empty name", CustomerInput{Address: "x", PhoneNumber: 1}, "name"},
		{"blank name", CustomerInput{Name: "   ", Address: "x", PhoneNumber: 1}, "name"},
		{"no address", CustomerInput{Name: "John", PhoneNumber: 1}, "address"},
		{"no phone", CustomerInput{Name: "John", Address: "x"}, "phoneNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, s := newTestService(t)

			_, err := svc.CreateCustomer(context.Background(), tt.in)
			assertValidation(t, err, tt.field)

			all, err := s.ListCustomers(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all, "nothing is persisted")
		})
	}
}

func TestSearchCustomers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreateCustomer(t, svc, "John", 9025551234)
	mustCreateCustomer(t, svc, "Joanna", 9025550000)
	mustCreateCustomer(t, svc, "Mark", 7775551111)

	names := func(cs []models.Customer) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	found, err := svc.SearchCustomers(ctx, "jo")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"John", "Joanna"}, names(found))

	found, err = svc.SearchCustomers(ctx, "JOANNA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Joanna"}, names(found))

	found, err = svc.SearchCustomers(ctx, "777")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mark"}, names(found))

	found, err = svc.SearchCustomers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = svc.SearchCustomers(ctx, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}

func TestCreateLaundryOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := mustCreateCustomer(t, svc, "Joanna", 9025550000)

	order, err := svc.CreateLaundryOrder(ctx, customer.ID.String(), LaundryOrderInput{
		DropOffDate: "2024-01-03T09:00",
		PickUpDate:  "2024-01-03T17:30",
		Loads:       json.Number("3"),
		Price:       json.Number("12.50"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, 3, order.Loads)
	assert.True(t, order.Price.Equal(decimal.RequireFromString("12.50")), "price %s", order.Price)
	require.NotNil(t, order.Customer)
	assert.Equal(t, customer.Ref(), order.Customer)

	// zone-less dates are read in the business time zone (AST, UTC-4)
	assert.Equal(t, time.Date(2024, 1, 3, 13, 0, 0, 0, time.UTC), order.DropOffDate.UTC())

	all, err := svc.ListLaundryOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, order.ID, all[0].ID)
	assert.Equal(t, "Joanna", all[0].Customer.Name)
	assert.Equal(t, models.PhoneNumber(9025550000), all[0].Customer.PhoneNumber)
}

func TestCreateLaundryOrder_Errors(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()
	customer := mustCreateCustomer(t, svc, "Joanna", 9025550000)

	valid := LaundryOrderInput{
		DropOffDate: "2024-01-03T09:00:00Z",
		PickUpDate:  "2024-01-04T09:00:00Z",
		Loads:       "2",
		Price:       "10",
	}
	with := func(mutate func(in *LaundryOrderInput)) LaundryOrderInput {
		in := valid
		mutate(&in)
		return in
	}

	tests := []struct {
		name       string
		customerID string
		in         LaundryOrderInput
		field      string
	}{
		{"absent customer id", "", valid, "customerId"},
		{"malformed customer id", "not-an-id", valid, "customerId"},
		{"missing drop-off", customer.ID.String(), with(func(in *LaundryOrderInput) { in.DropOffDate = "" }), "dropOffDate"},
		{"bad pick-up", customer.ID.String(), with(func(in *LaundryOrderInput) { in.PickUpDate = "tomorrow" }), "pickUpDate"},
		{"pick-up before drop-off", customer.ID.String(), with(func(in *LaundryOrderInput) { in.PickUpDate = "2024-01-02T09:00:00Z" }), "pickUpDate"},
		{"missing loads", customer.ID.String(), with(func(in *LaundryOrderInput) { in.Loads = "" }), "loads"},
		{"fractional loads", customer.ID.String(), with(func(in *LaundryOrderInput) { in.Loads = "1.5" }), "loads"},
		{"zero loads", customer.ID.String(), with(func(in *LaundryOrderInput) { in.Loads = "0" }), "loads"},
		{"missing price", customer.ID.String(), with(func(in *LaundryOrderInput) { in.Price = "" }), "price"},
		{"sub-cent price", customer.ID.String(), with(func(in *LaundryOrderInput) { in.Price = "1.005" }), "price"},
		{"negative price", customer.ID.String(), with(func(in *LaundryOrderInput) { in.Price = "-1" }), "price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLaundryOrder(ctx, tt.customerID, tt.in)
			assertValidation(t, err, tt.field)
		})
	}

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.CreateLaundryOrder(ctx, uuid.NewString(), valid)
		var nf *models.NotFoundError
		require.True(t, errors.As(err, &nf), "got %v", err)
		assert.Equal(t, "customer", nf.Resource)
	})

	orders, err := s.ListLaundryOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "failed submissions write nothing")
}

func TestListLaundryOrdersForCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	john := mustCreateCustomer(t, svc, "John", 9025551234)
	mark := mustCreateCustomer(t, svc, "Mark", 7775551111)

	in := LaundryOrderInput{DropOffDate: "2024-01-03T09:00", PickUpDate: "2024-01-03T10:00", Loads: "1", Price: "4.25"}
	_, err := svc.CreateLaundryOrder(ctx, john.ID.String(), in)
	require.NoError(t, err)
	_, err = svc.CreateLaundryOrder(ctx, mark.ID.String(), in)
	require.NoError(t, err)

	history, err := svc.ListLaundryOrdersForCustomer(ctx, john.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, john.ID, history[0].CustomerID)

	_, err = svc.ListLaundryOrdersForCustomer(ctx, "nope")
	assertValidation(t, err, "customerId")

	_, err = svc.ListLaundryOrdersForCustomer(ctx, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

func TestListsAreNeverNil(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, customers)

	orders, err := svc.ListLaundryOrders(ctx)
	require.NoError(t, err)
	assert.NotNil(t, orders)
}

func TestExportLaundryOrdersCSV(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	john := mustCreateCustomer(t, svc, "John", 9025551234)
	mark := mustCreateCustomer(t, svc, "Mark, Jr.", 7775551111)

	in := LaundryOrderInput{DropOffDate: "2024-01-03T09:00", PickUpDate: "2024-01-03T10:00", Loads: "2", Price: "12.5"}

	svc.now = func() time.Time { return time.Date(2024, 1, 3, 15, 5, 0, 0, time.UTC) }
	_, err := svc.CreateLaundryOrder(ctx, john.ID.String(), in)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 1, 5, 15, 5, 0, 0, time.UTC) }
	in.Price = "7"
	_, err = svc.CreateLaundryOrder(ctx, mark.ID.String(), in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportLaundryOrdersCSV(ctx, &buf, ""))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Name,Phone Number,Loads,Price", lines[0])
	// stored 3h behind UTC, shown in Atlantic time
	assert.Equal(t, `"1/5/2024, 8:05:00 AM","Mark, Jr.",7775551111,2,7.00`, lines[1])
	assert.Equal(t, `"1/3/2024, 8:05:00 AM",John,9025551234,2,12.50`, lines[2])

	buf.Reset()
	require.NoError(t, svc.ExportLaundryOrdersCSV(ctx, &buf, "902"))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "John")
}
