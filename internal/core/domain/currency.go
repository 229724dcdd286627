package domain

// Currency represents a currency supported by the remote exchange-rate API.
// Values are taken verbatim from the remote directory and never mutated locally.
type Currency struct {
	ID                int    `json:"id"`
	Code              string `json:"code"`       // e.g. "USD"
	Name              string `json:"name"`       // e.g. "United States Dollar"
	ShortCode         string `json:"short_code"` // Identity, used as the selection value
	Symbol            string `json:"symbol"`     // e.g. "$"
	Precision         int    `json:"precision"`
	DecimalMark       string `json:"decimal_mark"`
	ThousandSeparator string `json:"thousand_separator"`
	SymbolFirst       bool   `json:"symbol_first"`
}

// Label is the text shown for the currency in a picker, e.g. "USD - United States Dollar".
func (c Currency) Label() string {
	return c.ShortCode + " - " + c.Name
}
