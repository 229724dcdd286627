package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_converter_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_converter_app/internal/core/query"
)

// currenciesKey identifies the directory query; there is only one.
var currenciesKey = query.NewKey("currencies")

// CurrencyService serves the currency directory from the remote API.
type CurrencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyReader
	cache        *query.Cache[[]domain.Currency]
}

// NewCurrencyService creates a CurrencyService. A zero ttl caches the directory
// for the lifetime of the process.
func NewCurrencyService(currencyRepo portsrepo.CurrencyReader, ttl time.Duration) *CurrencyService {
	return &CurrencyService{
		currencyRepo: currencyRepo,
		cache:        query.NewCache[[]domain.Currency](ttl),
	}
}

// ListCurrencies returns the directory. Concurrent callers share a single
// remote request. The returned slice must not be modified.
func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.cache.Fetch(ctx, currenciesKey, func(ctx context.Context) ([]domain.Currency, error) {
		s.LogInfo(ctx, "Fetching currency directory")
		return s.currencyRepo.ListCurrencies(ctx)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return []domain.Currency{}, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	s.GetLogger(ctx).Debug("Currency directory served", slog.Int("count", len(currencies)))
	return currencies, nil
}
