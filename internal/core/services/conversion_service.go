package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_converter_app/internal/apperrors"
	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_converter_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_converter_app/internal/core/query"
	"github.com/shopspring/decimal"
)

// ConversionService resolves conversions through the remote API, keyed by
// request identity (from, to, amount as typed).
type ConversionService struct {
	BaseService
	conversionRepo portsrepo.ConversionReader
	cache          *query.Cache[decimal.Decimal]
}

// NewConversionService creates a ConversionService caching results for ttl.
func NewConversionService(conversionRepo portsrepo.ConversionReader, ttl time.Duration) *ConversionService {
	return &ConversionService{
		conversionRepo: conversionRepo,
		cache:          query.NewCache[decimal.Decimal](ttl),
	}
}

// conversionKey maps a request identity to its query key.
func conversionKey(k domain.ConversionKey) query.Key {
	return query.NewKey("convert", k.From, k.To, k.Amount)
}

// Convert returns the converted value for req. Requests that fail the enable
// predicate are rejected without contacting the remote API.
func (s *ConversionService) Convert(ctx context.Context, req domain.ConversionRequest) (decimal.Decimal, error) {
	if !req.Enabled() {
		return decimal.Zero, fmt.Errorf("%w: both currencies and a positive amount are required", apperrors.ErrValidation)
	}

	logger := s.GetLogger(ctx).With(
		slog.String("from", req.From),
		slog.String("to", req.To),
		slog.String("amount", req.Amount),
	)

	value, err := s.cache.Fetch(ctx, conversionKey(req.Key()), func(ctx context.Context) (decimal.Decimal, error) {
		logger.Info("Requesting conversion")
		return s.conversionRepo.Convert(ctx, req)
	})
	if err != nil {
		logger.Error("Failed to convert", slog.String("error", err.Error()))
		return decimal.Zero, fmt.Errorf("failed to convert in service: %w", err)
	}
	return value, nil
}

// PurgeExpired drops expired conversion results and returns how many were removed.
func (s *ConversionService) PurgeExpired() int {
	return s.cache.Purge()
}
