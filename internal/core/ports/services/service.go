package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Currency   CurrencyReaderSvc
	Conversion ConversionSvc
}

// converterFacade joins the container's services into a ConverterSvcFacade.
type converterFacade struct {
	CurrencyReaderSvc
	ConversionSvc
}

// Converter returns the services a converter form depends on as one facade.
func (c *ServiceContainer) Converter() ConverterSvcFacade {
	return converterFacade{CurrencyReaderSvc: c.Currency, ConversionSvc: c.Conversion}
}
