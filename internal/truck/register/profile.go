package register

import "strings"

type field int

const (
	fieldTruckNumber field = iota
	fieldOwnerName
	fieldOwnerContact
	fieldDriverName
	fieldDriverContact
)

// aliases lists the header spellings seen in mandi registers. Matching ignores case,
// punctuation and repeated spaces, so "Vehicle No." and "VEHICLE  NO" both hit.
var aliases = map[field][]string{
	fieldTruckNumber:   {"truck number", "truck no", "vehicle number", "vehicle no", "registration number", "reg no"},
	fieldOwnerName:     {"owner name", "owner"},
	fieldOwnerContact:  {"owner contact", "owner contact number", "owner mobile", "owner phone"},
	fieldDriverName:    {"driver name", "driver"},
	fieldDriverContact: {"driver contact", "driver contact number", "driver mobile", "driver phone"},
}

var delimiters = []rune{',', ';', '\t'}

type columns map[field]int

func headerKey(cell string) string {
	cell = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}

		return ' '
	}, cell)

	return strings.Join(strings.Fields(cell), " ")
}

// matchHeader returns the column layout if row names a truck number column.
func matchHeader(row []string) (columns, bool) {
	lookup := make(map[string]field)

	for f, names := range aliases {
		for _, n := range names {
			lookup[n] = f
		}
	}

	cols := make(columns)

	for i, cell := range row {
		f, ok := lookup[headerKey(cell)]
		if !ok {
			continue
		}

		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}

	_, ok := cols[fieldTruckNumber]

	return cols, ok
}

func (c columns) value(row []string, f field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
