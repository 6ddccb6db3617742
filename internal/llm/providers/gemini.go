package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"jobportal/internal/config"
	"jobportal/internal/llm/processors"
	"jobportal/internal/llm/types"
	"jobportal/internal/logging"
)

// GeminiProvider implements the gateway provider using Google's Gemini through langchaingo
type GeminiProvider struct {
	model  llms.Model
	config *config.Config
	logger logging.Logger
}

// NewGeminiProvider creates a Gemini client for the configured model
func NewGeminiProvider(ctx context.Context, cfg *config.Config) (*GeminiProvider, error) {
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.LLM.APIKey),
		googleai.WithDefaultModel(cfg.LLM.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewGeminiProviderWithModel(cfg, model), nil
}

// NewGeminiProviderWithModel wraps an existing langchaingo model
func NewGeminiProviderWithModel(cfg *config.Config, model llms.Model) *GeminiProvider {
	return &GeminiProvider{
		model:  model,
		config: cfg,
		logger: logging.GetGlobalLogger().WithField("provider", "gemini"),
	}
}

// Generate sends one prompt to Gemini and returns the text reply
func (gp *GeminiProvider) Generate(ctx context.Context, req types.Request) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + " " + prompt
	}

	opts := []llms.CallOption{
		llms.WithTemperature(float64(gp.config.LLM.Temperature)),
		llms.WithMaxTokens(gp.config.LLM.MaxTokens),
	}

	if req.WantsJSON() {
		instruction, err := processors.SchemaInstruction(req.Schema)
		if err != nil {
			return "", err
		}
		prompt += instruction
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, gp.model, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	if req.WantsJSON() {
		resp = processors.StripCodeFences(resp)
	}

	gp.logger.Debug("Gemini response received", map[string]interface{}{
		"json":            req.WantsJSON(),
		"response_length": len(resp),
	})

	return resp, nil
}

// IsHealthy checks that a key is configured and the model answers a minimal prompt
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	if gp.config.LLM.APIKey == "" {
		return fmt.Errorf("Gemini API key not configured - set LLM_API_KEY environment variable")
	}

	if _, err := llms.GenerateFromSinglePrompt(ctx, gp.model, "Hello", llms.WithMaxTokens(16)); err != nil {
		return fmt.Errorf("Gemini API health check failed: %w", err)
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (gp *GeminiProvider) GetProviderName() string {
	return config.ProviderGemini
}
