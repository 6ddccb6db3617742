package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal/internal/logging"
	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

// ErrorHandler renders every handler error as {"error": "..."}
func ErrorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := statusAndMessage(err)
		if code >= http.StatusInternalServerError {
			logger.Error("Request failed", map[string]interface{}{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     code,
				"error":      err.Error(),
			})
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, models.ErrorResponse{Error: message})
		}
		if writeErr != nil {
			logger.Error("Failed to write error response", map[string]interface{}{"error": writeErr.Error()})
		}
	}
}

func statusAndMessage(err error) (int, string) {
	var ce *utils.CustomError
	if errors.As(err, &ce) {
		return ce.Code, ce.Error()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)
	}
	return utils.StatusAndMessage(err)
}
