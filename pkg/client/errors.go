package client

import "fmt"

// UnknownErrorMessage is surfaced when no HTTP response could be read
const UnknownErrorMessage = "An unknown error occurred during the API call."

// Error is the single failure type of every client call
type Error struct {
	Endpoint string
	// Status is the HTTP status, 0 when no response was received
	Status int
	// Message is the server-supplied error text or a fallback
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return UnknownErrorMessage
	}
	return fmt.Sprintf("Failed during API call. Error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fallbackMessage(endpoint string) string {
	return fmt.Sprintf("API call to endpoint '%s' failed", endpoint)
}
