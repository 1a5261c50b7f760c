package server

import (
	"html/template"
	"io"
	"net/http"
	"time"

	"gymbuddy/internal/user"
	"gymbuddy/internal/utility"
	"gymbuddy/web"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	trusted, err := s.cfg.TrustedProxyRanges()
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid TRUSTED_PROXIES, trusting no proxy")
		trusted = nil
	}
	e.IPExtractor = utility.NewIPExtractor(trusted)

	e.Use(LoggerMiddleware)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := utility.Logger(c)
			ev := logger.Info()
			if v.Error != nil {
				ev = logger.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.StaticFS("/static", echo.MustSubFS(web.Static, "static"))

	e.Renderer = &TemplateRenderer{
		templates: template.Must(template.ParseFS(web.Templates, "templates/*.html")),
	}

	e.GET("/", s.indexHandler)
	e.GET("/health", s.healthHandler)

	api := e.Group("/api")
	api.POST("/onboarding", s.users.OnboardingHandler)
	api.GET("/profile", s.users.GetProfileHandler)
	api.POST("/chat", s.users.ChatHandler, s.chatRateLimiter()...)

	return e
}

func (s *Server) indexHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", map[string]string{"Title": "GymBuddy"})
}

// chatRateLimiter throttles model calls per client IP. A zero rate disables it.
func (s *Server) chatRateLimiter() []echo.MiddlewareFunc {
	if s.cfg.ChatRateLimit <= 0 {
		return nil
	}

	burst := int(s.cfg.ChatRateLimit * 2)
	if burst < 1 {
		burst = 1
	}

	return []echo.MiddlewareFunc{middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.cfg.ChatRateLimit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, user.ErrorResponse{Error: "Unable to identify client."})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			utility.Logger(c).Warn().Str("ip", identifier).Msg("Chat rate limit exceeded")
			return c.JSON(http.StatusTooManyRequests, user.ErrorResponse{Error: "Too many messages, please slow down."})
		},
	})}
}

// LoggerMiddleware tags every request with an id and a request-scoped logger.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
