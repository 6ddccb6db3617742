package logging

import "jobportal/internal/logging/types"

// Re-exported so callers only import this package
type (
	LogLevel      = types.LogLevel
	LogEntry      = types.LogEntry
	LogAdapter    = types.LogAdapter
	Logger        = types.Logger
	AdapterConfig = types.AdapterConfig
)

const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
	FatalLevel = types.FatalLevel
)
