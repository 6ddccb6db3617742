package interceptors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func TestRecoveryInterceptorConvertsPanic(t *testing.T) {
	resp, err := RecoveryInterceptor()(context.Background(), nil, info,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			panic("boom")
		})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	want := errors.New("denied")
	resp, err := LoggingInterceptor()(context.Background(), "req", info,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			return "resp", want
		})

	assert.Equal(t, "resp", resp)
	assert.Equal(t, want, err)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, codes.OK, statusCode(nil))
	assert.Equal(t, codes.NotFound, statusCode(status.Error(codes.NotFound, "x")))
	assert.Equal(t, codes.Internal, statusCode(errors.New("plain")))
}

func TestMetricsInterceptorRecordsCalls(t *testing.T) {
	collector := NewMetricsCollector()
	interceptor := MetricsInterceptor(collector)

	ok := func(ctx context.Context, req interface{}) (interface{}, error) { return "resp", nil }
	fail := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.Unavailable, "down")
	}

	_, err := interceptor(context.Background(), nil, info, ok)
	require.NoError(t, err)
	_, err = interceptor(context.Background(), nil, info, ok)
	require.NoError(t, err)
	_, err = interceptor(context.Background(), nil, info, fail)
	require.Error(t, err)

	stats, found := collector.Method(info.FullMethod)
	require.True(t, found)
	assert.Equal(t, int64(3), stats.RequestCount)
	assert.Equal(t, int64(2), stats.SuccessCount)
	assert.Equal(t, int64(1), stats.ErrorCount)
	assert.Equal(t, stats.TotalDuration/3, stats.AverageDuration)

	requests, errs := collector.Totals()
	assert.Equal(t, int64(3), requests)
	assert.Equal(t, int64(1), errs)

	collector.Reset()
	assert.Empty(t, collector.All())
	_, found = collector.Method(info.FullMethod)
	assert.False(t, found)
}
