package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown instead of a converted amount that was never produced.
const Placeholder = "--"

// Fraction digit bounds for displayed converted amounts.
const (
	MinFractionDigits = 2
	MaxFractionDigits = 6
)

var amountPrinter = message.NewPrinter(language.English)

// FormatConvertedAmount renders a converted value with standard grouping and
// between 2 and 6 fraction digits, or the placeholder when amount is nil.
// Example: 92.5 returns "92.50"
// Example: 1234567.891 returns "1,234,567.891"
// Example: 0.12345678 returns "0.123457"
func FormatConvertedAmount(amount *decimal.Decimal) string {
	if amount == nil {
		return Placeholder
	}
	// Round in decimal arithmetic first so the printer never sees float noise
	// beyond the sixth fraction digit.
	rounded := amount.Round(MaxFractionDigits).InexactFloat64()
	return amountPrinter.Sprintf("%v", number.Decimal(rounded,
		number.MinFractionDigits(MinFractionDigits),
		number.MaxFractionDigits(MaxFractionDigits),
	))
}
