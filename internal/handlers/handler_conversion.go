package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_converter_app/internal/apperrors"
	portssvc "github.com/SscSPs/currency_converter_app/internal/core/ports/services"
	"github.com/SscSPs/currency_converter_app/internal/core/session"
	"github.com/SscSPs/currency_converter_app/internal/dto"
	"github.com/SscSPs/currency_converter_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler handles HTTP requests related to conversions.
type conversionHandler struct {
	conversionService portssvc.ConversionSvc
}

// newConversionHandler creates a new conversionHandler.
func newConversionHandler(cs portssvc.ConversionSvc) *conversionHandler {
	return &conversionHandler{
		conversionService: cs,
	}
}

// registerConversionRoutes registers routes related to conversions.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvc) {
	h := newConversionHandler(conversionService)
	rg.GET("/convert", h.convert)
}

// convert godoc
// @Summary Convert an amount between two currencies
// @Description Converts amount from one currency to another through the exchange-rate API.
// @Description When a currency is missing or the amount is not strictly positive, no conversion takes place and converted is false.
// @Tags conversions
// @Produce  json
// @Param   from   query string false "Source currency short code" example(USD)
// @Param   to     query string false "Target currency short code" example(EUR)
// @Param   amount query string false "Amount as decimal text, digits with an optional dot" example(100)
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid amount or currency code"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 502 {object} map[string]string "Failed to convert currency"
// @Failure 500 {object} map[string]string "Failed to convert"
// @Router /convert [get]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	conversion := req.ToDomain()
	if !conversion.Enabled() {
		logger.Info("Conversion not requested, inputs incomplete",
			slog.String("from", req.From), slog.String("to", req.To), slog.String("amount", req.Amount))
		c.JSON(http.StatusOK, dto.ToConversionResponse(conversion, nil))
		return
	}

	value, err := h.conversionService.Convert(c.Request.Context(), conversion)
	if err != nil {
		if errors.Is(err, apperrors.ErrConversionFetch) {
			logger.Warn("Conversion unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": session.ConversionErrorMessage})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error converting", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to convert in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert"})
		}
		return
	}

	logger.Info("Conversion succeeded", slog.String("value", value.String()))
	c.JSON(http.StatusOK, dto.ToConversionResponse(conversion, &value))
}
