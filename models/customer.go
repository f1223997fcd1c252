package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreationBias is applied to server-side creation timestamps. The shop runs on
// Atlantic time and the records have always been stored three hours behind UTC.
const CreationBias = -3 * time.Hour

// CreationTime returns the timestamp stored as a record's creation date.
func CreationTime(now time.Time) time.Time {
	return now.UTC().Add(CreationBias)
}

// PhoneNumber is kept numeric, the way the front desk types it.
type PhoneNumber int64

func (p PhoneNumber) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// UnmarshalJSON accepts both 5148342123 and "5148342123".
func (p *PhoneNumber) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return NewValidationError("phoneNumber", "must be numeric")
	}
	if n == "" {
		*p = 0
		return nil
	}
	v, err := ParsePhoneNumber(n.String())
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePhoneNumber converts a numeric string into a PhoneNumber.
func ParsePhoneNumber(s string) (PhoneNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewValidationError("phoneNumber", "is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, NewValidationError("phoneNumber", "must be numeric")
	}
	return PhoneNumber(v), nil
}

type Customer struct {
	ID          uuid.UUID   `gorm:"primaryKey;size:36" json:"id"`
	Name        string      `gorm:"not null;index" json:"name" validate:"required"`
	Address     string      `gorm:"not null" json:"address" validate:"required"`
	PhoneNumber PhoneNumber `gorm:"not null;index" json:"phoneNumber" validate:"required,gt=0"`
	Date        time.Time   `gorm:"not null;index" json:"date"`
}

// Validate checks the fields required before a customer can be written.
func (c *Customer) Validate() error {
	return validateStruct(c)
}

// Ref returns the customer fields embedded in laundry order responses.
func (c Customer) Ref() *CustomerRef {
	return &CustomerRef{ID: c.ID, Name: c.Name, PhoneNumber: c.PhoneNumber}
}

// CustomerRef is the joined view of a customer carried by a laundry order.
type CustomerRef struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	PhoneNumber PhoneNumber `json:"phoneNumber"`
}
