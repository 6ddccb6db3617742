package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"jobportal/internal/logging/types"
)

// adapterSet is shared by a logger and every child derived with WithField/WithFields
type adapterSet struct {
	mu       sync.RWMutex
	level    LogLevel
	adapters map[string]types.LogAdapter
}

// MultiLogger fans every entry out to all registered adapters
type MultiLogger struct {
	set     *adapterSet
	context context.Context
	fields  map[string]interface{}
}

// NewMultiLogger creates a new MultiLogger instance with no adapters
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{
		set: &adapterSet{
			level:    InfoLevel,
			adapters: make(map[string]types.LogAdapter),
		},
		context: context.Background(),
		fields:  make(map[string]interface{}),
	}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return NewMultiLogger()
}

// Debug logs a debug message
func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DebugLevel, message, fields...)
}

// Info logs an info message
func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.log(InfoLevel, message, fields...)
}

// Warn logs a warning message
func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WarnLevel, message, fields...)
}

// Error logs an error message
func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.log(ErrorLevel, message, fields...)
}

// Fatal logs a fatal message, closes the adapters and exits
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.log(FatalLevel, message, fields...)
	l.Close()
	os.Exit(1)
}

func (l *MultiLogger) log(level LogLevel, message string, fields ...map[string]interface{}) {
	l.set.mu.RLock()
	defer l.set.mu.RUnlock()

	if level < l.set.level || len(l.set.adapters) == 0 {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Context:   l.context,
		Fields:    l.mergeFields(fields...),
	}

	for name, adapter := range l.set.adapters {
		if err := adapter.Write(entry); err != nil {
			// stderr, never back into the logger
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

// WithContext returns a logger carrying ctx
func (l *MultiLogger) WithContext(ctx context.Context) Logger {
	return &MultiLogger{set: l.set, context: ctx, fields: l.copyFields()}
}

// WithField returns a logger with an additional field
func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	fields := l.copyFields()
	fields[key] = value
	return &MultiLogger{set: l.set, context: l.context, fields: fields}
}

// WithFields returns a logger with additional fields
func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	merged := l.copyFields()
	for k, v := range fields {
		merged[k] = v
	}
	return &MultiLogger{set: l.set, context: l.context, fields: merged}
}

// SetLevel sets the minimum level for every logger sharing these adapters
func (l *MultiLogger) SetLevel(level LogLevel) {
	l.set.mu.Lock()
	defer l.set.mu.Unlock()
	l.set.level = level
}

// GetLevel returns the current minimum level
func (l *MultiLogger) GetLevel() LogLevel {
	l.set.mu.RLock()
	defer l.set.mu.RUnlock()
	return l.set.level
}

// AddAdapter registers an adapter; names must be unique
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.set.mu.Lock()
	defer l.set.mu.Unlock()

	name := adapter.Name()
	if _, exists := l.set.adapters[name]; exists {
		return fmt.Errorf("adapter %s already exists", name)
	}

	l.set.adapters[name] = adapter
	return nil
}

// Close closes all adapters
func (l *MultiLogger) Close() error {
	l.set.mu.Lock()
	defer l.set.mu.Unlock()

	var errs []string
	for name, adapter := range l.set.adapters {
		if err := adapter.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("adapter %s: %v", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close adapters: %s", strings.Join(errs, ", "))
	}
	return nil
}

func (l *MultiLogger) copyFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return fields
}

func (l *MultiLogger) mergeFields(additional ...map[string]interface{}) map[string]interface{} {
	fields := l.copyFields()
	for _, fieldMap := range additional {
		for k, v := range fieldMap {
			fields[k] = v
		}
	}
	return fields
}

// ParseLogLevel parses a string log level into LogLevel
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
