package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobportal/internal/api/handlers"
	"jobportal/internal/api/routes"
	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/grpc/server"
	"jobportal/internal/llm"
	"jobportal/internal/logging"
	"jobportal/internal/mux"
	"jobportal/internal/proxy"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Job Portal AI Proxy", map[string]interface{}{
		"version":  handlers.Version,
		"provider": cfg.LLM.Provider,
	})

	ctx := context.Background()

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	healthDeps := handlers.HealthDeps{LLM: llmManager}
	serviceOpts := []proxy.Option{proxy.WithLogger(logger)}

	// Resource guide cache is optional; the proxy works without it
	var resourceCache *cache.RedisCache
	if cfg.Cache.Enabled {
		resourceCache, err = cache.NewRedisCache(cfg)
		if err != nil {
			logger.Warn("Resource cache unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
			resourceCache = nil
		} else {
			healthDeps.Cache = resourceCache
			serviceOpts = append(serviceOpts, proxy.WithCache(resourceCache))
		}
	}

	service, err := proxy.NewService(llmManager, serviceOpts...)
	if err != nil {
		logger.Fatal("Failed to build proxy service", map[string]interface{}{"error": err.Error()})
	}

	// gRPC health server shares the listener; its call counts feed /status
	grpcServer := server.NewServer(cfg)
	healthDeps.GRPC = grpcServer.Metrics()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	routes.SetupRoutes(e, cfg, service, healthDeps)

	multiplexer := mux.NewMultiplexer(cfg, grpcServer, e)

	address := cfg.Address()
	if err := multiplexer.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error(), "address": address})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Stopping HTTP and gRPC servers...")
	if err := multiplexer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping multiplexer", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Stopping LLM manager...")
	if err := llmManager.Stop(); err != nil {
		logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
	}

	if resourceCache != nil {
		if err := resourceCache.Close(); err != nil {
			logger.Error("Error closing resource cache", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("Server shutdown complete")
}
