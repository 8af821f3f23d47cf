package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/yamdb/review-api/internal/api/handler"
	"github.com/yamdb/review-api/internal/api/middleware"
	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Log       zerolog.Logger
	JWTSecret string
	// AuthRateLimit is the sustained requests/second allowed per client IP
	// on /auth. Zero disables the limiter.
	AuthRateLimit float64

	Users middleware.UserLookup

	AuthService     ports.AuthService
	UserService     ports.UserService
	CategoryService ports.CategoryService
	GenreService    ports.GenreService
	TitleService    ports.TitleService
	ReviewService   ports.ReviewService
	CommentService  ports.CommentService

	HealthChecks []handler.HealthCheck

	// Metrics overrides the registry HTTP metrics are recorded in and
	// /metrics serves. Nil uses the prometheus default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	promCfg := echoprometheus.MiddlewareConfig{Namespace: "yamdb", Subsystem: "http"}
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Metrics != nil {
		promCfg.Registerer = deps.Metrics
		gatherer = deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(deps.HealthChecks...)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1", middleware.Authenticate(deps.JWTSecret, deps.Users))

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	auth := v1.Group("/auth")
	if deps.AuthRateLimit > 0 {
		auth.Use(echomiddleware.RateLimiter(
			echomiddleware.NewRateLimiterMemoryStore(rate.Limit(deps.AuthRateLimit)),
		))
	}
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/token", authHandler.Token)

	// --- Users ---
	userHandler := handler.NewUserHandler(deps.UserService)
	self := middleware.Permit(domain.ResourceSelf)
	admin := middleware.Permit(domain.ResourceUser)
	v1.GET("/users/me", userHandler.Me, self)
	v1.PATCH("/users/me", userHandler.UpdateMe, self)
	v1.DELETE("/users/me", userHandler.DeleteMe, self)
	v1.PUT("/users/me", handler.MethodNotAllowed)
	v1.GET("/users", userHandler.List, admin)
	v1.POST("/users", userHandler.Create, admin)
	v1.GET("/users/:username", userHandler.Get, admin)
	v1.PATCH("/users/:username", userHandler.Update, admin)
	v1.DELETE("/users/:username", userHandler.Delete, admin)
	v1.PUT("/users/:username", handler.MethodNotAllowed)

	// --- Catalog ---
	categoryHandler := handler.NewCategoryHandler(deps.CategoryService)
	categories := v1.Group("/categories", middleware.Permit(domain.ResourceCategory))
	categories.GET("", categoryHandler.List)
	categories.POST("", categoryHandler.Create)
	categories.DELETE("/:slug", categoryHandler.Delete)

	genreHandler := handler.NewGenreHandler(deps.GenreService)
	genres := v1.Group("/genres", middleware.Permit(domain.ResourceGenre))
	genres.GET("", genreHandler.List)
	genres.POST("", genreHandler.Create)
	genres.DELETE("/:slug", genreHandler.Delete)

	titleHandler := handler.NewTitleHandler(deps.TitleService)
	titles := v1.Group("/titles", middleware.Permit(domain.ResourceTitle))
	titles.GET("", titleHandler.List)
	titles.POST("", titleHandler.Create)
	titles.GET("/:id", titleHandler.Get)
	titles.PATCH("/:id", titleHandler.Update)
	titles.DELETE("/:id", titleHandler.Delete)

	// --- Feedback ---
	reviewHandler := handler.NewReviewHandler(deps.ReviewService)
	reviews := v1.Group("/titles/:title_id/reviews", middleware.Permit(domain.ResourceReview))
	reviews.GET("", reviewHandler.List)
	reviews.POST("", reviewHandler.Create)
	reviews.GET("/:id", reviewHandler.Get)
	reviews.PATCH("/:id", reviewHandler.Update)
	reviews.DELETE("/:id", reviewHandler.Delete)

	commentHandler := handler.NewCommentHandler(deps.CommentService)
	comments := v1.Group("/titles/:title_id/reviews/:review_id/comments", middleware.Permit(domain.ResourceComment))
	comments.GET("", commentHandler.List)
	comments.POST("", commentHandler.Create)
	comments.GET("/:id", commentHandler.Get)
	comments.PATCH("/:id", commentHandler.Update)
	comments.DELETE("/:id", commentHandler.Delete)

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
