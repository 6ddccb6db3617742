package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"jobportal/pkg/utils"
)

// TimeoutConfig bounds the request context. A deadline hit inside the AI call is
// an upstream failure like any other: 500 with the underlying message.
func TimeoutConfig(timeout time.Duration) echo.MiddlewareFunc {
	return middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: timeout,
		ErrorHandler: func(err error, c echo.Context) error {
			// Already mapped by the service, keep its status and message
			var ce *utils.CustomError
			if errors.As(err, &ce) {
				return err
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return utils.NewUpstreamError(err)
			}
			return err
		},
	})
}
