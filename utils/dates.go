// utils/dates.go
package utils

import (
	"strings"
	"time"

	"laundromat-backend/models"
)

// layouts accepted for client timestamps: RFC 3339, then the HTML
// datetime-local forms the front desk form submits.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime parses value; zone-less layouts are read in loc.
func ParseDateTime(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, models.NewValidationError(field, "is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.NewValidationError(field, "is not a valid date")
}

// FormatLocal renders t the way the dashboard shows dates, e.g. "1/3/2024, 9:05:00 AM".
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("1/2/2006, 3:04:05 PM")
}
