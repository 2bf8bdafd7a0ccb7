package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

const numberPrefix = "INV"

// FormatNumber renders the business key INV-<year>-<6 digit sequence>.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s-%04d-%06d", numberPrefix, year, seq)
}

// NumberPrefix is the LIKE prefix shared by every number issued in year.
func NumberPrefix(year int) string {
	return fmt.Sprintf("%s-%04d-", numberPrefix, year)
}

func ParseNumber(number string) (year, seq int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != numberPrefix || len(parts[1]) != 4 || len(parts[2]) < 6 {
		return 0, 0, fmt.Errorf("malformed invoice number %q", number)
	}

	if year, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("malformed invoice year in %q: %w", number, err)
	}

	if seq, err = strconv.Atoi(parts[2]); err != nil || seq < 1 {
		return 0, 0, fmt.Errorf("malformed invoice sequence in %q", number)
	}

	return year, seq, nil
}
