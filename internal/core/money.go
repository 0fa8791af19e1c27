package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity parses a positive user-entered number such as hours.
// Dot (7.5) and comma (7,5) separators are accepted; signs, exponents and
// zero are rejected. The value keeps its full precision.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.ContainsAny(s, "+-eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseAmount parses a positive money amount, rounding half-up to cents.
//
//	ParseAmount("24,90") -> 24.9
//	ParseAmount("1.005") -> 1.01
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := ParseQuantity(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d = d.Round(2); !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatEuro renders an amount in German notation, e.g. "1.234,50 €".
func FormatEuro(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString("," + frac + " €")
	return b.String()
}
