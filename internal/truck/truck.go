package truck

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
)

var ErrNotFound = fmt.Errorf("truck %w", apperr.ErrNotFound)

// Contact details given to trucks first seen on an invoice.
const (
	PlaceholderName    = "Unknown"
	PlaceholderContact = "0000000000"
)

type Truck struct {
	ID                  uuid.UUID
	TruckNumber         string
	OwnerName           string
	OwnerContactNumber  string
	DriverName          string
	DriverContactNumber string
	ClaimCount          int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (t *Truck) HasClaims() bool {
	return t.ClaimCount > 0
}

// NormalizeNumber uppercases a registration number and drops everything but letters and digits,
// so "mh-12 ab 1234" and "MH12AB1234" name the same truck.
func NormalizeNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}

		return -1
	}, number)
}

// Contacts is one truck's row in an imported register. Empty fields keep whatever is stored.
type Contacts struct {
	TruckNumber         string
	OwnerName           string
	OwnerContactNumber  string
	DriverName          string
	DriverContactNumber string
}

type ImportResult struct {
	Created int
	Updated int
}
