package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobportal/internal/config"
	"jobportal/internal/llm/processors"
	"jobportal/internal/llm/types"
	"jobportal/internal/logging"
)

// ClaudeProvider implements the gateway provider using Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
		option.WithRequestTimeout(cfg.LLM.Timeout),
		// failures surface to the caller, nothing is retried
		option.WithMaxRetries(0),
	)

	return &ClaudeProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger().WithField("provider", "claude"),
	}
}

// Generate sends one prompt to Claude and returns the text reply
func (cp *ClaudeProvider) Generate(ctx context.Context, req types.Request) (string, error) {
	startTime := time.Now()

	prompt := req.Prompt
	if req.WantsJSON() {
		instruction, err := processors.SchemaInstruction(req.Schema)
		if err != nil {
			return "", err
		}
		prompt += instruction
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(cp.config.LLM.Model),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	response, err := cp.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	text, err := responseText(response)
	if err != nil {
		return "", err
	}
	if req.WantsJSON() {
		text = processors.StripCodeFences(text)
	}

	cp.logger.Debug("Claude response received", map[string]interface{}{
		"json":            req.WantsJSON(),
		"response_length": len(text),
		"processing_time": time.Since(startTime).String(),
	})

	return text, nil
}

func responseText(response *anthropic.Message) (string, error) {
	if response == nil || len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude response")
	}
	return sb.String(), nil
}

// IsHealthy checks that a key is configured and the API answers a minimal request
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(cp.config.LLM.Model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return config.ProviderClaude
}
