package interceptors

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"

	"jobportal/internal/logging"
)

// MethodStats holds call metrics for one gRPC method
type MethodStats struct {
	RequestCount    int64         `json:"request_count"`
	SuccessCount    int64         `json:"success_count"`
	ErrorCount      int64         `json:"error_count"`
	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
	LastUpdated     time.Time     `json:"last_updated"`
}

// MetricsCollector collects per-method gRPC metrics
type MetricsCollector struct {
	mu      sync.RWMutex
	methods map[string]*MethodStats
}

// NewMetricsCollector creates an empty collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{methods: make(map[string]*MethodStats)}
}

// Record adds one call of method to the collector
func (c *MetricsCollector) Record(method string, duration time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.methods[method]
	if !ok {
		stats = &MethodStats{}
		c.methods[method] = stats
	}

	stats.RequestCount++
	stats.TotalDuration += duration
	stats.AverageDuration = stats.TotalDuration / time.Duration(stats.RequestCount)
	stats.LastUpdated = time.Now()

	if err != nil {
		stats.ErrorCount++
	} else {
		stats.SuccessCount++
	}
}

// Method returns a copy of the metrics for one method
func (c *MetricsCollector) Method(method string) (MethodStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if stats, ok := c.methods[method]; ok {
		return *stats, true
	}
	return MethodStats{}, false
}

// All returns a copy of every method's metrics
func (c *MetricsCollector) All() map[string]MethodStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]MethodStats, len(c.methods))
	for method, stats := range c.methods {
		out[method] = *stats
	}
	return out
}

// Totals sums requests and errors across all methods
func (c *MetricsCollector) Totals() (requests, errors int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, stats := range c.methods {
		requests += stats.RequestCount
		errors += stats.ErrorCount
	}
	return requests, errors
}

// Reset clears all metrics
func (c *MetricsCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.methods = make(map[string]*MethodStats)
}

// MetricsInterceptor returns a gRPC unary interceptor that records into collector
func MetricsInterceptor(collector *MetricsCollector) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		collector.Record(info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

// StreamMetricsInterceptor returns a gRPC streaming interceptor that records into collector
func StreamMetricsInterceptor(collector *MetricsCollector) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		err := handler(srv, ss)
		collector.Record(info.FullMethod, time.Since(start), err)
		return err
	}
}

// LogMetricsSummary logs one line per recorded method
func LogMetricsSummary(collector *MetricsCollector, logger logging.Logger) {
	for method, stats := range collector.All() {
		successRate := float64(0)
		if stats.RequestCount > 0 {
			successRate = float64(stats.SuccessCount) / float64(stats.RequestCount) * 100
		}

		logger.Info("gRPC method metrics summary", map[string]interface{}{
			"method":              method,
			"request_count":       stats.RequestCount,
			"success_count":       stats.SuccessCount,
			"error_count":         stats.ErrorCount,
			"success_rate":        successRate,
			"average_duration_ms": stats.AverageDuration.Milliseconds(),
			"type":                "grpc_metrics_summary",
		})
	}
}
