// Package currencybeacon is the adapter for the CurrencyBeacon exchange-rate API.
// See: https://currencybeacon.com/api-documentation
package currencybeacon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/currency_converter_app/internal/apperrors"
	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_converter_app/internal/core/ports/repositories"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
)

// Config configures the API client.
type Config struct {
	BaseURL  string // e.g. https://api.currencybeacon.com/v1
	APIKey   string
	Timeout  time.Duration
	RetryMax int
}

// Client calls the CurrencyBeacon REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// currenciesResponse is the payload of GET /currencies.
type currenciesResponse struct {
	Response []domain.Currency `json:"response"`
}

// convertResponse is the payload of GET /convert.
// Example: { "meta": {...}, "response": { "timestamp": 1700000000, "date": "2023-11-14", "from": "USD", "to": "EUR", "amount": 100, "value": 92.5 } }
type convertResponse struct {
	Response *struct {
		Value *decimal.Decimal `json:"value"`
	} `json:"response"`
}

// NewClient creates a client. Connection errors and 5xx responses are retried
// cfg.RetryMax times by the HTTP layer; nothing above it retries.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	// The default logger prints full URLs, which carry the API key.
	rc.Logger = nil
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			logger.Warn("Retrying exchange-rate API request",
				slog.String("path", req.URL.Path),
				slog.Int("attempt", attempt),
			)
		}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: rc.StandardClient(),
		logger:     logger,
	}
}

var _ portsrepo.CurrencyRepositoryFacade = (*Client)(nil)

// ListCurrencies fetches the full currency directory in the order delivered by the API.
func (c *Client) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	var payload currenciesResponse
	if err := c.get(ctx, "/currencies", nil, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDirectoryFetch, err)
	}
	if payload.Response == nil {
		return []domain.Currency{}, nil
	}

	c.logger.Debug("Fetched currency directory", slog.Int("count", len(payload.Response)))
	return payload.Response, nil
}

// Convert asks the API for the value of req.Amount in req.To. The request is
// sent even when From equals To.
func (c *Client) Convert(ctx context.Context, req domain.ConversionRequest) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("from", req.From)
	params.Set("to", req.To)
	params.Set("amount", req.ParsedAmount().String())

	var payload convertResponse
	if err := c.get(ctx, "/convert", params, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrConversionFetch, err)
	}
	if payload.Response == nil || payload.Response.Value == nil {
		return decimal.Zero, fmt.Errorf("%w: response has no value", apperrors.ErrConversionFetch)
	}

	return *payload.Response.Value, nil
}

// get issues an authenticated GET and decodes a 2xx JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Never log the endpoint: it carries the API key.
		c.logger.Warn("Exchange-rate API request failed", slog.String("path", path), slog.String("error", err.Error()))
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Exchange-rate API returned an error status",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
