package services

import (
	portsrepo "github.com/SscSPs/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_converter_app/internal/core/ports/services"
	"github.com/SscSPs/currency_converter_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Currency:   NewCurrencyService(repos.CurrencyRepo, cfg.DirectoryCacheTTL),
		Conversion: NewConversionService(repos.ConversionRepo, cfg.ConversionCacheTTL),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CurrencyReaderSvc = (*CurrencyService)(nil)
	_ portssvc.ConversionSvc     = (*ConversionService)(nil)
)
