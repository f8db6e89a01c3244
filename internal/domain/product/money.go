package product

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMoney = errors.New("product: invalid money value")

	maxRating = decimal.NewFromInt(5)
)

// ParseMoney parses a decimal money string. Negative values are rejected.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidMoney
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidMoney
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidMoney
	}
	return d, nil
}

// NormalizeMoney parses s and renders it with two fractional digits ("24.9" -> "24.90").
func NormalizeMoney(s string) (string, error) {
	d, err := ParseMoney(s)
	if err != nil {
		return "", err
	}
	return FormatMoney(d), nil
}

// FormatMoney renders d with two fractional digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// LineTotal returns unitPrice * qty.
func LineTotal(unitPrice string, qty int) (decimal.Decimal, error) {
	d, err := ParseMoney(unitPrice)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Mul(decimal.NewFromInt(int64(qty))), nil
}

func validateRating(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return ErrInvalidRating
	}
	if d.IsNegative() || d.GreaterThan(maxRating) {
		return ErrInvalidRating
	}
	return nil
}
