package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// prices go over the wire as numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

type LaundryOrder struct {
	ID          uuid.UUID       `gorm:"primaryKey;size:36" json:"id"`
	CustomerID  uuid.UUID       `gorm:"size:36;index;not null" json:"customerId" validate:"required"`
	DropOffDate time.Time       `gorm:"not null" json:"dropOffDate" validate:"required"`
	PickUpDate  time.Time       `gorm:"not null;index" json:"pickUpDate" validate:"required,gtefield=DropOffDate"`
	Loads       int             `gorm:"not null" json:"loads" validate:"required,gt=0"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	Customer *CustomerRef `gorm:"-" json:"customer,omitempty"`
}

// Validate checks the fields required before an order can be written.
func (o *LaundryOrder) Validate() error {
	if err := validateStruct(o); err != nil {
		return err
	}
	if o.Price.IsNegative() {
		return NewValidationError("price", "must not be negative")
	}
	return nil
}

// SortOrdersByDateDesc orders newest first, keeping the relative order of equal dates.
func SortOrdersByDateDesc(orders []LaundryOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
}
