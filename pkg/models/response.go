package models

import "time"

// ResourceContentResponse wraps the free-text guide produced by generateResourceContent
type ResourceContentResponse struct {
	Content string `json:"content"`
}

// ErrorResponse is the error envelope of every failing request
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}
