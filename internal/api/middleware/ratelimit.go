package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"jobportal/internal/config"
	"jobportal/internal/logging"
	"jobportal/pkg/utils"
)

// RateLimit limits requests per client IP using an in-memory token bucket store
func RateLimit(cfg *config.Config) echo.MiddlewareFunc {
	expiresIn := cfg.RateLimit.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3 * time.Minute
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RateLimit.PerSecond),
		Burst:     cfg.RateLimit.Burst,
		ExpiresIn: expiresIn,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return !cfg.RateLimit.Enabled
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return &utils.CustomError{Code: http.StatusForbidden, Message: "Unable to identify client", Cause: err}
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logging.GetGlobalLogger().Warn("Rate limit exceeded", map[string]interface{}{
				"client": identifier,
				"path":   c.Path(),
			})
			return &utils.CustomError{Code: http.StatusTooManyRequests, Message: "Too Many Requests", Cause: err}
		},
	})
}
