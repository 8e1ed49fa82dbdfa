package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visionatrix-exapp/pkg/log"
)

const (
	heartbeatPath = "/heartbeat"
	metricsPath   = "/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.Use(requestIDMiddleware)
	s.echo.Use(setupRequestLoggerMiddleware())
	s.echo.Use(middleware.Recover())
	public := []string{heartbeatPath}
	if s.config.MetricsEnabled {
		public = append(public, metricsPath)
	}
	s.echo.Use(s.authMiddleware(public...))
	s.echo.Use(s.localizationMiddleware)

	s.echo.GET(heartbeatPath, s.handleHeartbeat)
	if s.config.MetricsEnabled {
		s.echo.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))
	}

	s.echo.POST("/init", s.handleInit)
	s.echo.PUT("/enabled", s.handleEnabled)

	s.echo.Any("/api/*", s.handleAPI)
	s.echo.Any("/*", s.handleStatic)
}

func setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			log.GetLog().DebugContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}
