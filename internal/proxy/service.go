package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"jobportal/internal/api/validation"
	"jobportal/internal/llm"
	"jobportal/internal/llm/processors"
	"jobportal/internal/logging"
	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

// Endpoint names one of the operations exposed by the gateway
type Endpoint string

const (
	EndpointParseResume             Endpoint = "parseResume"
	EndpointFindMatchingJobs        Endpoint = "findMatchingJobs"
	EndpointAnalyzeJobDescription   Endpoint = "analyzeJobDescription"
	EndpointFindSimilarJobs         Endpoint = "findSimilarJobs"
	EndpointGenerateResourceContent Endpoint = "generateResourceContent"
)

var (
	// ErrNotConfigured is returned while the gateway credential is missing
	ErrNotConfigured = llm.ErrNotConfigured
	// ErrUnknownEndpoint is returned for endpoint names outside the dispatch table
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// maxCleanedLength bounds pasted text embedded in a prompt
const maxCleanedLength = 50000

// Generator is the slice of the LLM manager the service depends on
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
	IsConfigured() bool
}

// Cache stores generated resource guides. Failures are logged and otherwise ignored.
type Cache interface {
	Get(ctx context.Context, audience, topic string) (string, bool, error)
	Set(ctx context.Context, audience, topic, content string) error
}

type handlerFunc func(ctx context.Context, payload json.RawMessage) ([]byte, error)

// Service dispatches proxy requests to the LLM gateway and enforces the response contracts
type Service struct {
	generator Generator
	cache     Cache
	validate  *validator.Validate
	cleaner   *processors.TextCleaner
	logger    logging.Logger

	contracts map[Endpoint]*contract
	handlers  map[Endpoint]handlerFunc
}

// Option configures a Service
type Option func(*Service)

// WithCache enables caching of generateResourceContent replies
func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithLogger overrides the global logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService builds the dispatch table and compiles the response schemas
func NewService(generator Generator, opts ...Option) (*Service, error) {
	s := &Service{
		generator: generator,
		validate:  validation.New(),
		cleaner:   processors.NewTextCleaner(maxCleanedLength),
		logger:    logging.GetGlobalLogger(),
		contracts: make(map[Endpoint]*contract),
	}
	for _, opt := range opts {
		opt(s)
	}

	documents := map[Endpoint]map[string]interface{}{
		EndpointParseResume:           resumeSchema(),
		EndpointFindMatchingJobs:      jobListSchema(),
		EndpointAnalyzeJobDescription: jobAnalysisSchema(),
		EndpointFindSimilarJobs:       jobListSchema(),
	}
	for endpoint, document := range documents {
		c, err := newContract(document)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", endpoint, err)
		}
		s.contracts[endpoint] = c
	}

	s.handlers = map[Endpoint]handlerFunc{
		EndpointParseResume:             s.parseResume,
		EndpointFindMatchingJobs:        s.findMatchingJobs,
		EndpointAnalyzeJobDescription:   s.analyzeJobDescription,
		EndpointFindSimilarJobs:         s.findSimilarJobs,
		EndpointGenerateResourceContent: s.generateResourceContent,
	}

	return s, nil
}

// Configured reports whether the gateway credential is present
func (s *Service) Configured() bool {
	return s.generator != nil && s.generator.IsConfigured()
}

// Endpoints lists the supported endpoint names
func (s *Service) Endpoints() []Endpoint {
	return []Endpoint{
		EndpointParseResume,
		EndpointFindMatchingJobs,
		EndpointAnalyzeJobDescription,
		EndpointFindSimilarJobs,
		EndpointGenerateResourceContent,
	}
}

// Handle runs one proxy request and returns the JSON body of a successful reply.
// Errors are *utils.CustomError values carrying the HTTP status to answer with.
func (s *Service) Handle(ctx context.Context, endpoint string, payload json.RawMessage) ([]byte, error) {
	if !s.Configured() {
		return nil, utils.NewConfigurationError(ErrNotConfigured.Error(), ErrNotConfigured)
	}
	if endpoint == "" || isEmptyPayload(payload) {
		return nil, utils.NewBadRequestError("Missing endpoint or payload")
	}

	handler, ok := s.handlers[Endpoint(endpoint)]
	if !ok {
		return nil, &utils.CustomError{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Unknown endpoint: %s", endpoint),
			Cause:   ErrUnknownEndpoint,
		}
	}

	start := time.Now()
	body, err := handler(ctx, payload)
	fields := map[string]interface{}{
		"endpoint":    endpoint,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		s.logger.Error("Proxy request failed", fields)
		return nil, err
	}

	s.logger.Info("Proxy request completed", fields)
	return body, nil
}

func isEmptyPayload(payload json.RawMessage) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decode unmarshals and validates a payload into dst
func (s *Service) decode(payload json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		return utils.NewBadRequestError(fmt.Sprintf("Invalid payload: %s", err.Error()))
	}
	if err := s.validate.Struct(dst); err != nil {
		return utils.NewValidationError(validation.Describe(err))
	}
	return nil
}

// generateJSON asks for a schema-constrained reply and returns it once it conforms
func (s *Service) generateJSON(ctx context.Context, endpoint Endpoint, prompt string) ([]byte, error) {
	c := s.contracts[endpoint]

	text, err := s.generator.Generate(ctx, llm.Request{Prompt: prompt, Schema: c.document})
	if err != nil {
		return nil, upstreamError(err)
	}

	raw := []byte(strings.TrimSpace(text))
	if err := c.check(raw); err != nil {
		return nil, utils.NewUpstreamError(err)
	}
	return raw, nil
}

func upstreamError(err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		return utils.NewConfigurationError(err.Error(), err)
	}
	return utils.NewUpstreamError(err)
}

func (s *Service) clean(text string) (string, error) {
	cleaned, err := s.cleaner.Clean(text)
	if err != nil {
		return "", utils.NewBadRequestError(fmt.Sprintf("Invalid payload: %s", err.Error()))
	}
	return cleaned, nil
}

func (s *Service) parseResume(ctx context.Context, payload json.RawMessage) ([]byte, error) {
	var p models.ParseResumePayload
	if err := s.decode(payload, &p); err != nil {
		return nil, err
	}

	text, err := s.clean(p.ResumeText)
	if err != nil {
		return nil, err
	}
	if utils.IsBlank(text) {
		return nil, utils.NewValidationError("ResumeText is required")
	}

	return s.generateJSON(ctx, EndpointParseResume, parseResumePrompt(text))
}

func (s *Service) findMatchingJobs(ctx context.Context, payload json.RawMessage) ([]byte, error) {
	var p models.FindMatchingJobsPayload
	if err := s.decode(payload, &p); err != nil {
		return nil, err
	}

	prompt, err := matchingJobsPrompt(p.Profile)
	if err != nil {
		return nil, utils.NewInternalServerError(err.Error())
	}
	return s.generateJSON(ctx, EndpointFindMatchingJobs, prompt)
}

func (s *Service) analyzeJobDescription(ctx context.Context, payload json.RawMessage) ([]byte, error) {
	var p models.AnalyzeJobPayload
	if err := s.decode(payload, &p); err != nil {
		return nil, err
	}

	info := *p.JobInfo
	description, err := s.clean(info.Description)
	if err != nil {
		return nil, err
	}
	info.Description = description

	prompt, err := analyzeJobPrompt(&info)
	if err != nil {
		return nil, utils.NewInternalServerError(err.Error())
	}
	return s.generateJSON(ctx, EndpointAnalyzeJobDescription, prompt)
}

func (s *Service) findSimilarJobs(ctx context.Context, payload json.RawMessage) ([]byte, error) {
	var p models.FindSimilarJobsPayload
	if err := s.decode(payload, &p); err != nil {
		return nil, err
	}

	prompt, err := similarJobsPrompt(p.Job)
	if err != nil {
		return nil, utils.NewInternalServerError(err.Error())
	}
	return s.generateJSON(ctx, EndpointFindSimilarJobs, prompt)
}

func (s *Service) generateResourceContent(ctx context.Context, payload json.RawMessage) ([]byte, error) {
	var p models.ResourceContentPayload
	if err := s.decode(payload, &p); err != nil {
		return nil, err
	}

	audience := string(p.Audience)
	if s.cache != nil {
		content, ok, err := s.cache.Get(ctx, audience, p.Topic)
		if err != nil {
			s.logger.Warn("Resource cache lookup failed", map[string]interface{}{
				"topic": p.Topic,
				"error": err.Error(),
			})
		} else if ok {
			s.logger.Debug("Resource cache hit", map[string]interface{}{"topic": p.Topic})
			return json.Marshal(models.ResourceContentResponse{Content: content})
		}
	}

	content, err := s.generator.Generate(ctx, llm.Request{
		System: personaFor(p.Audience),
		Prompt: resourcePrompt(p.Topic),
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, audience, p.Topic, content); err != nil {
			s.logger.Warn("Resource cache store failed", map[string]interface{}{
				"topic": p.Topic,
				"error": err.Error(),
			})
		}
	}

	return json.Marshal(models.ResourceContentResponse{Content: content})
}
