package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"jobportal/internal/logging"
	"jobportal/pkg/models"
	"jobportal/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Version is reported by the health and banner routes
const Version = "1.0.0"

var startTime = time.Now()

// LLMStatus is the slice of the LLM manager the health routes report on
type LLMStatus interface {
	IsConfigured() bool
	GetProviderName() string
}

// Pinger is implemented by optional backing stores such as the resource cache
type Pinger interface {
	Ping(ctx context.Context) error
}

// CallCounter reports totals of served gRPC calls
type CallCounter interface {
	Totals() (requests, errors int64)
}

// HealthDeps carries what the readiness and status routes inspect. Cache and GRPC may be nil.
type HealthDeps struct {
	LLM   LLMStatus
	Cache Pinger
	GRPC  CallCounter
}

func (d HealthDeps) checks(ctx context.Context) map[string]string {
	checks := map[string]string{"api": "ok"}

	if d.LLM != nil && d.LLM.IsConfigured() {
		checks["llm"] = "ok"
		checks["llm_provider"] = d.LLM.GetProviderName()
	} else {
		checks["llm"] = "not_configured"
	}

	switch {
	case d.Cache == nil:
		checks["cache"] = "disabled"
	default:
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := d.Cache.Ping(pingCtx); err != nil {
			checks["cache"] = "unreachable"
		} else {
			checks["cache"] = "ok"
		}
	}

	return checks
}

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{
		"request_id": requestID(c),
	})

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks:    map[string]string{"api": "ok"},
	})
}

// ReadinessHandler reports dependency state. A missing credential does not make the
// service unready: proxy calls answer with a configuration error instead.
func ReadinessHandler(deps HealthDeps) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Readiness check requested", map[string]interface{}{
			"request_id": requestID(c),
		})

		checks := deps.checks(c.Request().Context())
		status := "ready"
		if checks["cache"] == "unreachable" {
			status = "degraded"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status
func StatusHandler(deps HealthDeps) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := deps.checks(c.Request().Context())
		checks["uptime"] = utils.FormatDuration(time.Since(startTime))
		if deps.GRPC != nil {
			requests, errors := deps.GRPC.Totals()
			checks["grpc_requests"] = strconv.FormatInt(requests, 10)
			checks["grpc_errors"] = strconv.FormatInt(errors, 10)
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

func requestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
