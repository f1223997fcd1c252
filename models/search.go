package models

import "strings"

// MatchesQuery reports whether a customer's name or phone number contains query,
// ignoring case. A blank query matches everything.
func MatchesQuery(name string, phone PhoneNumber, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), q) || strings.Contains(phone.String(), q)
}
