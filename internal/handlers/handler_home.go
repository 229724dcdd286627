package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_converter_app/internal/core/session"
	"github.com/SscSPs/currency_converter_app/internal/middleware"
	"github.com/SscSPs/currency_converter_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

const converterTemplate = "converter.html"

// refreshSeconds is how often the page reloads itself while a request is outstanding.
const refreshSeconds = 1

// converterPageHandler serves the server-rendered converter form.
type converterPageHandler struct {
	sessions *session.Store
}

// converterForm is the body of a converter form submission.
type converterForm struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Amount string `form:"amount"`
}

// converterPage is the data rendered by the converter template.
type converterPage struct {
	session.View
	RefreshSeconds int
	AmountRejected bool
}

func newConverterPageHandler(sessions *session.Store) *converterPageHandler {
	return &converterPageHandler{sessions: sessions}
}

// loadTemplates parses the embedded HTML templates.
func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// registerConverterPageRoutes registers the HTML converter form at the root path.
func registerConverterPageRoutes(r *gin.Engine, cfg *config.Config, sessions *session.Store, rateLimiter *limiter.Limiter) {
	h := newConverterPageHandler(sessions)
	r.SetHTMLTemplate(loadTemplates())

	page := r.Group("/", middleware.SessionMiddleware(cfg.IsProduction))
	{
		page.GET("", middleware.RateLimit(rateLimiter), h.show)
		page.POST("", middleware.RateLimit(rateLimiter), h.submit)
	}
}

// show renders the converter form of the caller's session, starting the
// currency directory fetch on first visit.
func (h *converterPageHandler) show(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		logger.Error("Session ID not found in context")
		c.String(http.StatusInternalServerError, "session unavailable")
		return
	}

	form := h.sessions.Get(sessionID)
	form.LoadDirectory(c.Request.Context())

	view := form.View()
	page := converterPage{
		View:           view,
		AmountRejected: c.Query("rejected") == "amount",
	}
	if view.Loading() {
		page.RefreshSeconds = refreshSeconds
	}

	logger.Debug("Rendering converter form",
		slog.String("directory", view.DirectoryPhase.String()),
		slog.String("conversion", view.ConversionPhase.String()),
	)
	c.HTML(http.StatusOK, converterTemplate, page)
}

// submit applies the posted inputs to the caller's session and redirects back
// to the form, so that a reload never re-posts.
func (h *converterPageHandler) submit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID, ok := middleware.GetSessionIDFromContext(c)
	if !ok {
		logger.Error("Session ID not found in context")
		c.String(http.StatusInternalServerError, "session unavailable")
		return
	}

	var in converterForm
	if err := c.ShouldBind(&in); err != nil {
		logger.Warn("Failed to bind converter form", slog.String("error", err.Error()))
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	form := h.sessions.Get(sessionID)
	form.LoadDirectory(c.Request.Context())
	if !form.Update(c.Request.Context(), in.From, in.To, in.Amount) {
		logger.Info("Rejected malformed amount", slog.String("amount", in.Amount))
		c.Redirect(http.StatusSeeOther, "/?rejected=amount")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
