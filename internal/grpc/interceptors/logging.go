package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"jobportal/internal/logging"
	"jobportal/pkg/utils"
)

func statusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}

func logCompletion(kind, requestID, method string, start time.Time, err error) {
	fields := map[string]interface{}{
		"request_id":  requestID,
		"method":      method,
		"duration_ms": time.Since(start).Milliseconds(),
		"status_code": statusCode(err).String(),
		"type":        "grpc_" + kind,
	}

	logger := logging.GetGlobalLogger()
	if err != nil {
		fields["error"] = err.Error()
		logger.Error("gRPC "+kind+" failed", fields)
		return
	}
	// health probes are frequent
	logger.Debug("gRPC "+kind+" completed", fields)
}

// LoggingInterceptor returns a gRPC unary interceptor that logs each call
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCompletion("request", utils.GenerateRequestID(), info.FullMethod, start, err)
		return resp, err
	}
}

// StreamLoggingInterceptor returns a gRPC streaming interceptor that logs each stream, such as Health/Watch
func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		err := handler(srv, ss)
		logCompletion("stream", utils.GenerateRequestID(), info.FullMethod, start, err)
		return err
	}
}
