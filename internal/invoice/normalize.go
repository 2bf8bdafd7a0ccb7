package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var dateLayouts = []string{time.DateOnly, time.RFC3339, "02/01/2006", "02-01-2006"}

// ParseDate accepts the date shapes clients send and truncates to the calendar day.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid date %q", apperr.ErrInvalidInput, raw)
}

// ProductName collapses the submitted product names to the single product an invoice carries.
// Repeated or blank entries are ignored; two different products are rejected.
func ProductName(names []string) (string, error) {
	var name string

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || n == name {
			continue
		}

		if name != "" {
			return "", fmt.Errorf("%w: an invoice carries a single product, got %q and %q", apperr.ErrInvalidInput, name, n)
		}

		name = n
	}

	if name == "" {
		return "", fmt.Errorf("%w: product name is required", apperr.ErrInvalidInput)
	}

	return name, nil
}
