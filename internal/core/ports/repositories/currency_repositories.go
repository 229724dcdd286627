package repositories

import (
	"context"

	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyReader defines read operations for the currency directory.
type CurrencyReader interface {
	// ListCurrencies retrieves all currencies supported by the remote source,
	// in the order the source delivers them.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ConversionReader defines conversion lookups against the remote source.
type ConversionReader interface {
	// Convert returns the amount of req.To equivalent to req.Amount of req.From.
	Convert(ctx context.Context, req domain.ConversionRequest) (decimal.Decimal, error)
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces.
// It is implemented by the remote exchange-rate API adapter.
type CurrencyRepositoryFacade interface {
	CurrencyReader
	ConversionReader
}
