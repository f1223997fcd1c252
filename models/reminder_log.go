// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderLog records one pick-up reminder attempt for an order.
type ReminderLog struct {
	ID           uuid.UUID `gorm:"primaryKey;size:36" json:"id"`
	OrderID      uuid.UUID `gorm:"size:36;index;not null" json:"orderId"`
	CustomerID   uuid.UUID `gorm:"size:36;index;not null" json:"customerId"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"size:20" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	Channel      string    `gorm:"size:20" json:"channel"` // sms
	SentAt       time.Time `gorm:"index" json:"sentAt"`
}

const (
	ReminderStatusSent   = "sent"
	ReminderStatusFailed = "failed"
	ReminderChannelSMS   = "sms"
)

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
