package dto

import (
	"github.com/SscSPs/currency_converter_app/internal/core/domain"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	ShortCode         string `json:"shortCode"`
	Symbol            string `json:"symbol"`
	ThousandSeparator string `json:"thousandSeparator"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:              curr.Code,
		Name:              curr.Name,
		ShortCode:         curr.ShortCode,
		Symbol:            curr.Symbol,
		ThousandSeparator: curr.ThousandSeparator,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs,
// keeping the order of the input.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(curr) // Reuse the single converter
	}
	return res
}
