package services

import (
	"context"

	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for the currency directory.
type CurrencyReaderSvc interface {
	// ListCurrencies retrieves all available currencies. Concurrent callers share
	// one remote request; a successful result is cached.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ConversionSvc defines conversion operations.
type ConversionSvc interface {
	// Convert resolves a conversion request. Requests failing the enable
	// predicate are rejected with apperrors.ErrValidation and never reach the
	// remote API.
	Convert(ctx context.Context, req domain.ConversionRequest) (decimal.Decimal, error)
}

// ConverterSvcFacade combines the services needed by a converter form.
type ConverterSvcFacade interface {
	CurrencyReaderSvc
	ConversionSvc
}
