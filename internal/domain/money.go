package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every money value
const MoneyPlaces = 2

// MaxMoney is the largest value a NUMERIC(11,2) column holds
var MaxMoney = decimal.RequireFromString("999999999.99")

const (
	// maxMoneyInputLen bounds the raw text of a money input
	maxMoneyInputLen = 64

	// maxIntegerDigits bounds the integer part before rounding; MaxMoney needs 9
	maxIntegerDigits = 15
)

var errEmptyAmount = errors.New("amount is empty")

// ErrMoneyOutOfRange is returned for values far outside what an account can hold
var ErrMoneyOutOfRange = errors.New("money value out of range")

// ParseMoney parses a decimal string and rounds it to cents.
// The magnitude is checked on coefficient and exponent before rounding,
// since rounding "1e30000000" would expand it to thirty million digits.
func ParseMoney(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errEmptyAmount
	}
	if len(raw) > maxMoneyInputLen {
		return decimal.Zero, fmt.Errorf("decimal of %d characters: %w", len(raw), ErrMoneyOutOfRange)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", raw, err)
	}

	// |d| < 10^(digits+exponent)
	magnitude := int64(d.NumDigits()) + int64(d.Exponent())
	if magnitude > maxIntegerDigits {
		return decimal.Zero, fmt.Errorf("decimal %q: %w", raw, ErrMoneyOutOfRange)
	}
	if magnitude < -MoneyPlaces {
		// below half a cent
		return decimal.Zero, nil
	}
	return d.Round(MoneyPlaces), nil
}

// FormatMoney renders d with exactly two fractional digits
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
