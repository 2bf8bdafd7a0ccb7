package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const requestTimeout = 10 * time.Second

// FormatAmount renders a rupee amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return "Rs." + d.StringFixed(2)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("2006-01-02")
}

// orDash keeps empty table cells readable.
func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
