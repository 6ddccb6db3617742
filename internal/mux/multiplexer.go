package mux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/soheilhy/cmux"

	"jobportal/internal/config"
	"jobportal/internal/grpc/server"
	"jobportal/internal/logging"
)

// Multiplexer serves gRPC health checks and the HTTP API on one listener
type Multiplexer struct {
	cfg    *config.Config
	logger logging.Logger

	grpcServer *server.Server
	httpServer *http.Server

	mux      cmux.CMux
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMultiplexer creates a new protocol multiplexer
func NewMultiplexer(cfg *config.Config, grpcServer *server.Server, httpHandler http.Handler) *Multiplexer {
	ctx, cancel := context.WithCancel(context.Background())

	return &Multiplexer{
		cfg:        cfg,
		logger:     logging.GetGlobalLogger(),
		grpcServer: grpcServer,
		ctx:        ctx,
		cancel:     cancel,
		httpServer: &http.Server{
			Handler:           httpHandler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}
}

// Start listens on address and serves both protocols in the background
func (m *Multiplexer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return m.Serve(listener)
}

// Serve multiplexes an existing listener
func (m *Multiplexer) Serve(listener net.Listener) error {
	m.listener = listener
	m.mux = cmux.New(listener)

	// gRPC-Go clients wait for the server SETTINGS frame before sending headers
	grpcListener := m.mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpListener := m.mux.Match(cmux.HTTP1Fast())

	address := listener.Addr().String()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.grpcServer.Start(grpcListener); err != nil && !errors.Is(err, cmux.ErrListenerClosed) {
			m.logger.Error("gRPC server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.logger.Info("Starting HTTP server", map[string]interface{}{"address": address})
		if err := m.httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			m.logger.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.mux.Serve(); err != nil && m.ctx.Err() == nil {
			m.logger.Error("Multiplexer failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.logger.Info("Multiplexer started successfully", map[string]interface{}{"address": address})
	return nil
}

// Stop gracefully shuts down the multiplexer and both servers
func (m *Multiplexer) Stop(ctx context.Context) error {
	m.logger.Info("Stopping multiplexer...")
	m.cancel()

	var shutdownErr error
	if err := m.httpServer.Shutdown(ctx); err != nil {
		shutdownErr = fmt.Errorf("http shutdown: %w", err)
	}

	m.grpcServer.Stop()

	if m.mux != nil {
		m.mux.Close()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Multiplexer stopped gracefully")
	case <-ctx.Done():
		m.logger.Warn("Multiplexer shutdown timed out")
		if shutdownErr == nil {
			shutdownErr = ctx.Err()
		}
	}

	return shutdownErr
}

// IsHealthy reports whether the multiplexer is still serving
func (m *Multiplexer) IsHealthy() bool {
	return m.ctx.Err() == nil && m.listener != nil
}

// GetAddress returns the address the multiplexer is listening on
func (m *Multiplexer) GetAddress() string {
	if m.listener != nil {
		return m.listener.Addr().String()
	}
	return ""
}
