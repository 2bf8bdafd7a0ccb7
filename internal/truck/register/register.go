// Package register reads truck registers that operators keep in spreadsheets.
package register

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/MrJamesThe3rd/mandi/internal/apperr"
	"github.com/MrJamesThe3rd/mandi/internal/textenc"
	"github.com/MrJamesThe3rd/mandi/internal/truck"
)

var ErrNoHeader = fmt.Errorf("%w: no truck number column found", apperr.ErrInvalidInput)

type Rejection struct {
	Line        int    `json:"line"`
	TruckNumber string `json:"truckNumber"`
	Reason      string `json:"reason"`
}

type Sheet struct {
	Rows     []truck.Contacts
	Rejected []Rejection
	Charset  string
}

type record struct {
	line   int
	fields []string
}

// Parse decodes a CSV export of unknown encoding and delimiter. Rows without a
// truck number are skipped; rows with an unusable phone number are rejected.
func Parse(r io.Reader) (*Sheet, error) {
	utf8r, charset, err := textenc.NewReader(r)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("reading register: %w", err)
	}

	for _, delim := range delimiters {
		records, err := readRecords(data, delim)
		if err != nil {
			continue
		}

		for i, rec := range records {
			cols, ok := matchHeader(rec.fields)
			if !ok {
				continue
			}

			sheet := parseRows(cols, records[i+1:])
			sheet.Charset = charset

			return sheet, nil
		}
	}

	return nil, ErrNoHeader
}

func readRecords(data []byte, delim rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
}

func parseRows(cols columns, records []record) *Sheet {
	sheet := &Sheet{}

	for _, rec := range records {
		number := truck.NormalizeNumber(cols.value(rec.fields, fieldTruckNumber))
		if number == "" {
			continue
		}

		row := truck.Contacts{
			TruckNumber: number,
			OwnerName:   cols.value(rec.fields, fieldOwnerName),
			DriverName:  cols.value(rec.fields, fieldDriverName),
		}

		var reason string

		row.OwnerContactNumber, reason = contact("owner", cols.value(rec.fields, fieldOwnerContact))
		if reason == "" {
			row.DriverContactNumber, reason = contact("driver", cols.value(rec.fields, fieldDriverContact))
		}

		if reason != "" {
			sheet.Rejected = append(sheet.Rejected, Rejection{Line: rec.line, TruckNumber: number, Reason: reason})
			continue
		}

		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

// contact reduces an Indian mobile number to its ten digits.
func contact(who, raw string) (string, string) {
	if raw == "" {
		return "", ""
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		if r == '+' || r == '-' || r == '(' || r == ')' || unicode.IsSpace(r) {
			return -1
		}

		return 'x'
	}, raw)

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}

	if len(digits) != 10 || strings.ContainsRune(digits, 'x') {
		return "", fmt.Sprintf("invalid %s contact %q", who, raw)
	}

	return digits, ""
}
