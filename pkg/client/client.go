package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobportal/internal/logging"
	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

// DefaultPath is the proxy route on the server
const DefaultPath = "/api/v1/ai"

// maxErrorBody bounds how much of a failing response is read
const maxErrorBody = 64 << 10

// Client is a typed wrapper over the AI proxy endpoint
type Client struct {
	baseURL string
	path    string
	http    *http.Client
	newID   func() string
	logger  logging.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every call
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPath overrides the proxy route, e.g. for the legacy function path
func WithPath(path string) Option {
	return func(c *Client) { c.path = path }
}

// WithIDGenerator overrides the id assigned to returned jobs
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the proxy service at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    DefaultPath,
		http:    &http.Client{Timeout: 150 * time.Second},
		newID:   utils.GenerateJobID,
		logger:  logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseResume extracts a structured profile from raw resume text
func (c *Client) ParseResume(ctx context.Context, resumeText string) (*models.ParsedResume, error) {
	var out models.ParsedResume
	if err := c.call(ctx, "parseResume", models.ParseResumePayload{ResumeText: resumeText}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindMatchingJobs returns jobs with a fresh id, approved status and no analysis
func (c *Client) FindMatchingJobs(ctx context.Context, profile *models.ParsedResume) ([]models.Job, error) {
	var listings []models.JobListing
	if err := c.call(ctx, "findMatchingJobs", models.FindMatchingJobsPayload{Profile: profile}, &listings); err != nil {
		return nil, err
	}
	return c.toJobs(listings), nil
}

// AnalyzeJobDescription returns suggested skills, category and clarity feedback for a draft
func (c *Client) AnalyzeJobDescription(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error) {
	var out models.JobAnalysis
	if err := c.call(ctx, "analyzeJobDescription", models.AnalyzeJobPayload{JobInfo: &info}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindSimilarJobs sends only the identifying fields of job
func (c *Client) FindSimilarJobs(ctx context.Context, job models.Job) ([]models.Job, error) {
	summary := job.Summary()
	var listings []models.JobListing
	if err := c.call(ctx, "findSimilarJobs", models.FindSimilarJobsPayload{Job: &summary}, &listings); err != nil {
		return nil, err
	}
	return c.toJobs(listings), nil
}

// GenerateResourceContent returns the guide text for a topic
func (c *Client) GenerateResourceContent(ctx context.Context, topic string, audience models.Audience) (string, error) {
	var out models.ResourceContentResponse
	if err := c.call(ctx, "generateResourceContent", models.ResourceContentPayload{Topic: topic, Audience: audience}, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) toJobs(listings []models.JobListing) []models.Job {
	jobs := make([]models.Job, 0, len(listings))
	for _, l := range listings {
		jobs = append(jobs, models.Job{
			ID:          c.newID(),
			JobTitle:    l.JobTitle,
			Company:     l.Company,
			Location:    l.Location,
			Description: l.Description,
			Skills:      l.Skills,
			Status:      models.JobStatusApproved,
			Analysis:    nil,
		})
	}
	return jobs
}

// call posts {endpoint, payload} and decodes a 2xx body into out
// call posts {endpoint, payload} and decodes a 2xx body into out
func (c *Client) call(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	// Build the request envelope
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return &Error{Endpoint: endpoint, Err: fmt.Errorf("encode payload: %w", err)}
	}
	body, err := json.Marshal(models.ProxyRequest{Endpoint: endpoint, Payload: rawPayload})
	if err != nil {
		return &Error{Endpoint: endpoint, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(body))
	if err != nil {
		return &Error{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	// Send request
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("API call failed", map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return &Error{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	// Non-2xx answers carry {"error": "..."} when the proxy produced them
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Endpoint: endpoint, Status: resp.StatusCode, Message: fallbackMessage(endpoint)}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var envelope models.ErrorResponse
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		c.logger.Warn("API call rejected", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"message":  apiErr.Message,
		})
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.logger.Debug("API call completed", map[string]interface{}{
		"endpoint":    endpoint,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
