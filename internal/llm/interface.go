package llm

import (
	"context"
	"errors"

	"jobportal/internal/llm/types"
)

// ErrNotConfigured is returned for every generation request while the gateway credential is missing
var ErrNotConfigured = errors.New("API_KEY not configured")

// Request is one generation call to the provider
type Request = types.Request

// Provider defines the interface for LLM gateway providers
type Provider interface {
	// Generate returns the model's text reply. For JSON requests the reply is
	// stripped of Markdown fences but not validated.
	Generate(ctx context.Context, req Request) (string, error)

	// IsHealthy checks if the provider is configured and reachable
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}
