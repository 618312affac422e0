package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Monetary policy: all amounts are decimal.Decimal end to end. Floats
// never enter the aggregation path. Display rounding happens at the
// formatting edge only.

var oneHundred = decimal.NewFromInt(100)

// Percent returns part/total*100 at full precision. A zero total yields
// exactly zero, never a division error or NaN-like artifact.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(oneHundred)
}

// ParseAmount parses a user-supplied monetary string. Both "1234,56"
// and "1234.56" are accepted, matching what the payment form sends.
// Empty, unparseable and non-positive inputs are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ErrValidation{
			Reason:  ReasonMissingAmount,
			Message: "Informe o valor",
		}
	}

	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ErrValidation{
			Reason:  ReasonMissingAmount,
			Message: "Valor inválido: " + s,
		}
	}
	if !d.IsPositive() {
		return decimal.Zero, &ErrValidation{
			Reason:  ReasonMissingAmount,
			Message: "O valor deve ser maior que zero",
		}
	}
	return d, nil
}

// FormatAmount renders a monetary value with two fraction digits
// (half-up).
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPercent renders a percentage with one fraction digit. The
// underlying value keeps full precision; only the display is rounded.
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
