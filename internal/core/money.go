// Package core holds the net worth domain: category snapshots, their
// derived fields and the cross-category totals.
//
// Every amount is a shopspring decimal so sums and products stay exact.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a signed decimal string.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Negative values
// are allowed because loans and debts are stored signed.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("-1,5")   -> -1.5
//	ParseAmount("")       -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseOptionalAmount returns nil for an empty string.
func ParseOptionalAmount(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}
