package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/currency_converter_app/internal/apperrors"
	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_converter_app/internal/core/ports/services"
	"github.com/SscSPs/currency_converter_app/internal/core/session"
	"github.com/SscSPs/currency_converter_app/internal/handlers"
	"github.com/SscSPs/currency_converter_app/internal/middleware"
	"github.com/SscSPs/currency_converter_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var testCurrencies = []domain.Currency{
	{ID: 1, Code: "USD", Name: "United States Dollar", ShortCode: "USD", Symbol: "$", ThousandSeparator: ","},
	{ID: 2, Code: "EUR", Name: "Euro", ShortCode: "EUR", Symbol: "€", ThousandSeparator: "."},
}

// --- Test Suite Setup ---
type HandlersTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockCurrencySvc   *MockCurrencyService
	mockConversionSvc *MockConversionService
	sessions          *session.Store
	cfg               *config.Config
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.mockConversionSvc = new(MockConversionService)
	suite.cfg = &config.Config{
		Port:         config.DefaultPort,
		IsProduction: true,
		RateLimit:    "1000-M",
		SessionTTL:   time.Minute,
	}
	suite.router = suite.newRouter(suite.cfg)
}

func (suite *HandlersTestSuite) newRouter(cfg *config.Config) *gin.Engine {
	container := &portssvc.ServiceContainer{
		Currency:   suite.mockCurrencySvc,
		Conversion: suite.mockConversionSvc,
	}
	suite.sessions = session.NewStore(container.Converter(), cfg.SessionTTL, nil)

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	suite.Require().NoError(err)

	r := gin.New()
	handlers.RegisterRoutes(r, cfg, container, suite.sessions, rateLimiter)
	return r
}

func (suite *HandlersTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// --- Tests ---

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/health", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestListCurrencies_Success() {
	suite.mockCurrencySvc.On("ListCurrencies", mock.Anything).Return(testCurrencies, nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	suite.Equal(http.StatusOK, w.Code)
	var body []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Require().Len(body, 2)
	suite.Equal("USD", body[0]["shortCode"])
	suite.Equal("Euro", body[1]["name"])
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestListCurrencies_UpstreamFailure() {
	err := fmt.Errorf("%w: status 401", apperrors.ErrDirectoryFetch)
	suite.mockCurrencySvc.On("ListCurrencies", mock.Anything).Return([]domain.Currency{}, err).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal(session.DirectoryErrorMessage, suite.decode(w)["error"])
}

func (suite *HandlersTestSuite) TestListCurrencies_InternalFailure() {
	suite.mockCurrencySvc.On("ListCurrencies", mock.Anything).Return(nil, fmt.Errorf("boom")).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil))

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *HandlersTestSuite) TestConvert_Success() {
	req := domain.ConversionRequest{From: "USD", To: "EUR", Amount: "100"}
	suite.mockConversionSvc.On("Convert", mock.Anything, req).Return(decimal.RequireFromString("92.5"), nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/convert?from=USD&to=EUR&amount=100", nil))

	suite.Equal(http.StatusOK, w.Code)
	body := suite.decode(w)
	suite.Equal(true, body["converted"])
	suite.Equal("92.5", body["value"])
	suite.Equal("92.50", body["formatted"])
	suite.Equal("100", body["amount"])
	suite.mockConversionSvc.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestConvert_NotEnabled() {
	tests := []struct {
		name  string
		query string
	}{
		{"missing from", "to=EUR&amount=1"},
		{"missing to", "from=USD&amount=1"},
		{"empty amount", "from=USD&to=EUR&amount="},
		{"zero amount", "from=USD&to=EUR&amount=0"},
		{"lone dot", "from=USD&to=EUR&amount=."},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/convert?"+tt.query, nil))

			suite.Equal(http.StatusOK, w.Code)
			body := suite.decode(w)
			suite.Equal(false, body["converted"])
			suite.NotContains(body, "value")
		})
	}
	suite.mockConversionSvc.AssertNotCalled(suite.T(), "Convert", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestConvert_InvalidInput() {
	tests := []struct {
		name  string
		query string
	}{
		{"letters in amount", "from=USD&to=EUR&amount=1a"},
		{"negative amount", "from=USD&to=EUR&amount=-1"},
		{"two dots", "from=USD&to=EUR&amount=1.2.3"},
		{"bad currency code", "from=US-D&to=EUR&amount=1"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/convert?"+tt.query, nil))
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockConversionSvc.AssertNotCalled(suite.T(), "Convert", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestConvert_UpstreamFailure() {
	req := domain.ConversionRequest{From: "USD", To: "EUR", Amount: "5"}
	err := fmt.Errorf("%w: status 500", apperrors.ErrConversionFetch)
	suite.mockConversionSvc.On("Convert", mock.Anything, req).Return(decimal.Zero, err).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/convert?from=USD&to=EUR&amount=5", nil))

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal(session.ConversionErrorMessage, suite.decode(w)["error"])
}

func (suite *HandlersTestSuite) TestConvert_RateLimited() {
	suite.cfg.RateLimit = "1-M"
	suite.router = suite.newRouter(suite.cfg)

	first := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/convert", nil))
	suite.Equal(http.StatusOK, first.Code)

	second := suite.serve(httptest.NewRequest(http.MethodGet, "/api/v1/convert", nil))
	suite.Equal(http.StatusTooManyRequests, second.Code)
}

func (suite *HandlersTestSuite) TestSwaggerHiddenInProduction() {
	w := suite.serve(httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestConverterPage_FirstVisit() {
	suite.mockCurrencySvc.On("ListCurrencies", mock.Anything).Return(testCurrencies, nil).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Currency Converter")
	suite.Contains(w.Body.String(), `value="1"`)

	sessionID := sessionCookie(w)
	suite.Require().NotEmpty(sessionID)
	suite.sessions.Get(sessionID).Wait()

	// Once the directory has loaded the pickers list the currencies.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionID})
	w = suite.serve(req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "USD - United States Dollar")
	suite.Contains(w.Body.String(), "EUR - Euro")
	suite.Contains(w.Body.String(), "--")
	suite.NotContains(w.Body.String(), "http-equiv=\"refresh\"")
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestConverterPage_DirectoryFailureBanner() {
	suite.mockCurrencySvc.On("ListCurrencies", mock.Anything).
		Return([]domain.Currency{}, apperrors.ErrDirectoryFetch).Once()

	w := suite.serve(httptest.NewRequest(http.MethodGet, "/", nil))
	sessionID := sessionCookie(w)
	suite.sessions.Get(sessionID).Wait()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionID})
	w = suite.serve(req)

	suite.Contains(w.Body.String(), "Failed to load currencies. Please check your API key and try again.")
	suite.Contains(w.Body.String(), "disabled")
}

func (suite *HandlersTestSuite) TestConverterPage_SubmitConverts() {
	suite.mockCurrencySvc.On("ListCurrencies", mock.Anything).Return(testCurrencies, nil).Once()
	req := domain.ConversionRequest{From: "USD", To: "EUR", Amount: "1234567.891"}
	suite.mockConversionSvc.On("Convert", mock.Anything, req).Return(decimal.RequireFromString("1234567.891"), nil).Once()

	form := url.Values{"from": {"USD"}, "to": {"EUR"}, "amount": {"1234567.891"}}
	post := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	post.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := suite.serve(post)

	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/", w.Header().Get("Location"))

	sessionID := sessionCookie(w)
	suite.sessions.Get(sessionID).Wait()

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	get.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionID})
	w = suite.serve(get)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "1,234,567.891")
	suite.mockConversionSvc.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestConverterPage_SubmitRejectsMalformedAmount() {
	suite.mockCurrencySvc.On("ListCurrencies", mock.Anything).Return(testCurrencies, nil).Maybe()
	// The currencies still apply and the previous amount is kept.
	kept := domain.ConversionRequest{From: "USD", To: "EUR", Amount: session.DefaultAmount}
	suite.mockConversionSvc.On("Convert", mock.Anything, kept).Return(decimal.RequireFromString("0.92"), nil).Once()

	form := url.Values{"from": {"USD"}, "to": {"EUR"}, "amount": {"12abc"}}
	post := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	post.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := suite.serve(post)

	suite.Equal(http.StatusSeeOther, w.Code)
	suite.Equal("/?rejected=amount", w.Header().Get("Location"))

	sessionID := sessionCookie(w)
	f := suite.sessions.Get(sessionID)
	f.Wait()
	view := f.View()
	suite.Equal(session.DefaultAmount, view.Amount)
	suite.Equal("USD", view.From)
	suite.Equal("0.92", view.Display)
	suite.mockConversionSvc.AssertExpectations(suite.T())

	get := httptest.NewRequest(http.MethodGet, "/?rejected=amount", nil)
	get.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionID})
	w = suite.serve(get)
	suite.Contains(w.Body.String(), `id="amount-rejected"`)
}

func sessionCookie(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	return ""
}
