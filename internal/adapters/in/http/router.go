package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter wires the API, health check, metrics and API docs onto one echo
// instance. Requests under /api/v1 are validated against openapi.yaml.
func NewRouter(server ServerInterface, gatherer prometheus.Gatherer, logger *slog.Logger) (*echo.Echo, error) {
	logger = logger.With("component", "http")

	doc, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			logger.Debug("request", attrs...)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("", validator)
	RegisterHandlers(api, server)

	return e, nil
}
