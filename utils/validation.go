// utils/validation.go
package utils

import (
	"regexp"
	"strings"

	"laundromat-backend/models"
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// ValidatePhone checks if a phone number is in E.164 format
func ValidatePhone(phone string) bool {
	return e164.MatchString(phone)
}

// FormatE164 turns a stored phone number into an E.164 address for SMS.
// Numbers already carrying the country code are not prefixed twice.
func FormatE164(countryCode string, phone models.PhoneNumber) (string, bool) {
	digits := phone.String()
	code := strings.TrimPrefix(countryCode, "+")
	if code != "" && !(strings.HasPrefix(digits, code) && len(digits) > 10) {
		digits = code + digits
	}
	formatted := "+" + digits
	return formatted, ValidatePhone(formatted)
}
