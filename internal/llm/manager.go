package llm

import (
	"context"
	"fmt"
	"sync"

	"jobportal/internal/config"
	"jobportal/internal/logging"
)

// Manager owns the configured provider and its lifecycle
type Manager struct {
	config   *config.Config
	factory  *Factory
	provider Provider
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewFactory(cfg),
		logger:  logging.GetGlobalLogger().WithField("component", "llm_manager"),
	}
}

// NewManagerWithProvider creates a started manager around an existing provider
func NewManagerWithProvider(cfg *config.Config, provider Provider) *Manager {
	m := NewManager(cfg)
	m.provider = provider
	m.healthy = cfg.HasAPIKey()
	return m
}

// Start creates the provider. A missing credential is not fatal: the manager starts
// and every Generate call fails with ErrNotConfigured until the key is supplied.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
		"model":    m.config.LLM.Model,
	})

	if !m.config.HasAPIKey() {
		m.logger.Error("LLM gateway credential missing - AI requests will be rejected (set LLM_API_KEY)")
		m.healthy = false
		return nil
	}

	provider, err := m.factory.CreateProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	m.provider = provider
	m.healthy = true

	m.logger.Info("LLM manager started successfully", map[string]interface{}{
		"provider": provider.GetProviderName(),
	})
	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Generate forwards a request to the provider
func (m *Manager) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if !m.config.HasAPIKey() || provider == nil {
		return "", ErrNotConfigured
	}

	return provider.Generate(ctx, req)
}

// IsConfigured reports whether a credential is present and a provider exists
func (m *Manager) IsConfigured() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.HasAPIKey() && m.provider != nil
}

// IsHealthy reports the result of the last health check
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a live health check on the provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return ErrNotConfigured
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = err == nil
	m.mu.Unlock()

	return err
}
