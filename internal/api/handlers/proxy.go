package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"jobportal/internal/logging"
	"jobportal/internal/proxy"
	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

// ProxyHandler handles the AI proxy endpoint. Errors are returned for the shared
// HTTP error handler to render as {"error": "..."}.
func ProxyHandler(service *proxy.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		reqID := requestID(c)

		if c.Request().Method != http.MethodPost {
			return utils.NewMethodNotAllowedError()
		}

		// The credential check precedes body parsing
		if !service.Configured() {
			logger.Error("Proxy request rejected, API key not configured", map[string]interface{}{
				"request_id": reqID,
			})
			return utils.NewConfigurationError(proxy.ErrNotConfigured.Error(), proxy.ErrNotConfigured)
		}

		// Parse request body
		var req models.ProxyRequest
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				// body limit exceeded
				return httpErr
			}
			if errors.Is(err, io.EOF) {
				return utils.NewBadRequestError("Missing endpoint or payload")
			}
			logger.Error("Failed to parse request body", map[string]interface{}{
				"request_id": reqID,
				"error":      err.Error(),
			})
			return utils.NewBadRequestError(fmt.Sprintf("Invalid request body: %s", err.Error()))
		}

		logger.Info("Processing proxy request", map[string]interface{}{
			"request_id": reqID,
			"endpoint":   req.Endpoint,
		})

		// Dispatch to the operation; the reply is already JSON
		body, err := service.Handle(c.Request().Context(), req.Endpoint, req.Payload)
		if err != nil {
			return err
		}

		return c.JSONBlob(http.StatusOK, body)
	}
}
