package domain

import (
	"strings"
	"time"
)

// Client is a lead that has been converted into a downstream record.
type Client struct {
	ID              string
	Name            string
	Phone           string
	SourceEnquiryID *string
	CreatedAt       time.Time
}

// NormalizePhone strips non-digits and keeps the last 10 digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}
