package routes

import (
	"net/http"

	"jobportal/internal/api/handlers"
	"jobportal/internal/api/middleware"
	"jobportal/internal/config"
	"jobportal/internal/logging"
	"jobportal/internal/proxy"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// LegacyProxyPath is where the hosted function used to live; existing clients still call it
const LegacyProxyPath = "/.netlify/functions/api"

// ProxyPath is the canonical AI proxy route
const ProxyPath = "/api/v1/ai"

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, service *proxy.Service, healthDeps handlers.HealthDeps) {
	logger := logging.GetGlobalLogger()

	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(echomiddleware.RequestLoggerWithConfig(requestLoggerConfig(logger)))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSConfig(cfg.Server.CORSOrigins))
	e.Use(echomiddleware.BodyLimit(cfg.Server.BodyLimit))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(healthDeps))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(healthDeps))

	// AI proxy: every verb is routed so the handler can answer 405 itself
	proxyHandler := handlers.ProxyHandler(service)
	aiMiddleware := []echo.MiddlewareFunc{
		middleware.RateLimit(cfg),
		middleware.TimeoutConfig(cfg.Server.AITimeout),
	}
	e.Any(ProxyPath, proxyHandler, aiMiddleware...)
	e.Any(LegacyProxyPath, proxyHandler, aiMiddleware...)

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Job Portal AI Proxy",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}

func requestLoggerConfig(logger logging.Logger) echomiddleware.RequestLoggerConfig {
	return echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := map[string]interface{}{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}
			if v.Error != nil {
				fields["error"] = v.Error.Error()
				logger.Warn("Request completed with error", fields)
				return nil
			}
			logger.Info("Request completed", fields)
			return nil
		},
	}
}
