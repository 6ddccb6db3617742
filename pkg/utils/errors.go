package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError represents an application error carrying the HTTP status it maps to
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Cause
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewMethodNotAllowedError reports a verb the route does not accept
func NewMethodNotAllowedError() *CustomError {
	return &CustomError{
		Code:    http.StatusMethodNotAllowed,
		Message: "Method Not Allowed",
	}
}

// NewInternalServerError reports an unexpected server failure
func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

// NewValidationError reports a payload that failed validation
func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// NewConfigurationError reports a server-side misconfiguration such as a missing credential
func NewConfigurationError(message string, cause error) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
		Cause:   cause,
	}
}

// NewUpstreamError reports a failure of the LLM gateway; the underlying message is surfaced as is
func NewUpstreamError(cause error) *CustomError {
	msg := "An internal server error occurred"
	if cause != nil {
		msg = cause.Error()
	}
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: msg,
		Cause:   cause,
	}
}

// StatusAndMessage maps any error to a status code and a client-facing message
func StatusAndMessage(err error) (int, string) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code, ce.Error()
	}
	return http.StatusInternalServerError, err.Error()
}
