package server

import (
	"net"
	"time"

	"jobportal/internal/config"
	"jobportal/internal/grpc/interceptors"
	"jobportal/internal/logging"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported alongside the overall status
const ServiceName = "jobportal.AIProxy"

// Server exposes the standard gRPC health service for load balancers and probes
type Server struct {
	cfg    *config.Config
	logger logging.Logger

	grpcServer *grpc.Server
	health     *health.Server
	metrics    *interceptors.MetricsCollector
}

// NewServer builds the gRPC server with health, reflection and the interceptor chain
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logging.GetGlobalLogger(),
		health:  health.NewServer(),
		metrics: interceptors.NewMetricsCollector(),
	}

	s.grpcServer = grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(),
			interceptors.LoggingInterceptor(),
			interceptors.MetricsInterceptor(s.metrics),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(),
			interceptors.StreamLoggingInterceptor(),
			interceptors.StreamMetricsInterceptor(s.metrics),
		),
	)

	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	reflection.Register(s.grpcServer)

	s.SetServing(cfg.HasAPIKey())
	return s
}

// SetServing flips the reported status of both the overall server and ServiceName
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)

	s.logger.Debug("gRPC health status updated", map[string]interface{}{
		"status": status.String(),
	})
}

// Metrics returns the collector fed by the interceptor chain
func (s *Server) Metrics() *interceptors.MetricsCollector {
	return s.metrics
}

// Start serves on lis until Stop is called
func (s *Server) Start(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", map[string]interface{}{
		"address": lis.Addr().String(),
	})
	return s.grpcServer.Serve(lis)
}

// Stop reports NOT_SERVING, drains in-flight calls and logs the call metrics
func (s *Server) Stop() {
	s.logger.Info("Shutting down gRPC server...")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	interceptors.LogMetricsSummary(s.metrics, s.logger)
}
