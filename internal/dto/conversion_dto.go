package dto

import (
	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	"github.com/SscSPs/currency_converter_app/internal/utils"
	"github.com/shopspring/decimal"
)

// ConvertRequest defines the query parameters of a conversion.
type ConvertRequest struct {
	From   string `form:"from" binding:"omitempty,alphanum,max=10"`
	To     string `form:"to" binding:"omitempty,alphanum,max=10"`
	Amount string `form:"amount" binding:"amounttext"`
}

// ToDomain converts the request into a domain.ConversionRequest.
func (r ConvertRequest) ToDomain() domain.ConversionRequest {
	return domain.ConversionRequest{From: r.From, To: r.To, Amount: r.Amount}
}

// ConversionResponse defines the data returned for a conversion.
// Converted is false when the inputs did not call for a conversion; Value and
// Formatted are then omitted.
type ConversionResponse struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	Amount    string           `json:"amount"`
	Converted bool             `json:"converted"`
	Value     *decimal.Decimal `json:"value,omitempty"`
	Formatted string           `json:"formatted,omitempty"`
}

// ToConversionResponse builds the response for req; value is nil when no conversion took place.
func ToConversionResponse(req domain.ConversionRequest, value *decimal.Decimal) ConversionResponse {
	res := ConversionResponse{
		From:   req.From,
		To:     req.To,
		Amount: req.Amount,
	}
	if value != nil {
		res.Converted = true
		res.Value = value
		res.Formatted = utils.FormatConvertedAmount(value)
	}
	return res
}
