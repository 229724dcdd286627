package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountInputPattern is the grammar accepted for the amount field: digits* ('.' digits*)?
var amountInputPattern = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`)

// IsValidAmountInput reports whether text may be stored in the amount field.
// The empty string is accepted so the field can be cleared.
func IsValidAmountInput(text string) bool {
	return amountInputPattern.MatchString(text)
}

// ParseAmount converts amount text into a number. Text that does not parse is
// coerced to zero, which the enable predicate treats as "nothing to convert".
func ParseAmount(text string) decimal.Decimal {
	if text == "" || !IsValidAmountInput(text) {
		return decimal.Zero
	}
	text = strings.TrimSuffix(text, ".")
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	if text == "" || text == "0" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// ShouldConvert is the enable predicate of the conversion requester: both
// currencies must be selected and the amount must be strictly positive.
func ShouldConvert(from, to, amount string) bool {
	return from != "" && to != "" && ParseAmount(amount).IsPositive()
}

// ConversionKey is the identity of a conversion request. Any change to one of
// its fields supersedes results obtained for the previous key.
type ConversionKey struct {
	From   string
	To     string
	Amount string // as typed, not normalised
}

// ConversionRequest is rebuilt from the form on every input change; it is never persisted.
type ConversionRequest struct {
	From   string
	To     string
	Amount string
}

// Key returns the request identity.
func (r ConversionRequest) Key() ConversionKey {
	return ConversionKey{From: r.From, To: r.To, Amount: r.Amount}
}

// Enabled reports whether the request may be sent to the remote API.
func (r ConversionRequest) Enabled() bool {
	return ShouldConvert(r.From, r.To, r.Amount)
}

// ParsedAmount is the numeric amount sent upstream.
func (r ConversionRequest) ParsedAmount() decimal.Decimal {
	return ParseAmount(r.Amount)
}
