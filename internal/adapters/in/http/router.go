package http

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterConfig carries the collaborators of the HTTP surface besides the use cases.
type RouterConfig struct {
	Authenticator Authenticator
	// RateLimiter throttles the public tracking endpoint; nil disables the limit.
	RateLimiter RateLimiter
	Logger      *slog.Logger
}

type requestValidator struct {
	v *validator.Validate
}

func (rv requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// NewRouter wires the API, docs, health and metrics endpoints onto a new echo instance.
func NewRouter(server *Server, api *OpenAPI, cfg RouterConfig) *echo.Echo {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(observe(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/openapi.yaml", serveSpec)
	e.GET("/docs/*", echoSwagger.WrapHandler)

	validate := api.ValidateRequests()

	v1 := e.Group("/api/v1")
	v1.GET("/track/:code", server.TrackByCode, rateLimit(cfg.RateLimiter, logger), validate)

	// authentication runs before document validation so unauthenticated calls get 401
	secured := v1.Group("", cfg.Authenticator.Middleware(), validate)
	secured.POST("/deliveries", server.CreateDelivery)
	secured.GET("/deliveries", server.ListDeliveries)
	secured.GET("/deliveries/mine", server.ListMyDeliveries)
	secured.GET("/deliveries/:id", server.GetDelivery)
	secured.POST("/deliveries/:id/assign", server.AssignDriver)
	secured.POST("/deliveries/:id/status", server.TransitionStatus)
	secured.POST("/deliveries/:id/proof", server.CaptureProof)
	secured.POST("/deliveries/:id/rating", server.RateDelivery)
	secured.GET("/users", server.ListUsers)
	secured.PUT("/users/:id", server.RegisterUser)
	secured.PUT("/drivers/me/location", server.UpdateDriverLocation)
	secured.PUT("/drivers/me/availability", server.SetDriverAvailability)
	secured.GET("/drivers/available", server.ListAvailableDrivers)

	return e
}
