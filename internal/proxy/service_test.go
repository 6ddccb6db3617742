package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/internal/llm"
	"jobportal/internal/logging"
	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

type fakeGenerator struct {
	mu         sync.Mutex
	configured bool
	reply      string
	err        error
	requests   []llm.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeGenerator) IsConfigured() bool { return f.configured }

func (f *fakeGenerator) calls() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

type memoryCache struct {
	entries map[string]string
	getErr  error
	sets    int
}

func (m *memoryCache) Get(ctx context.Context, audience, topic string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.entries[audience+"|"+topic]
	return v, ok, nil
}

func (m *memoryCache) Set(ctx context.Context, audience, topic, content string) error {
	m.sets++
	m.entries[audience+"|"+topic] = content
	return nil
}

const resumeReply = `{"fullName":"Jane Doe","email":"jane@example.com","summary":"Engineer",
"skills":["Go"],"experience":[{"jobTitle":"Dev","company":"Acme","dates":"2020 - Present","responsibilities":["Build"]}],
"education":[{"degree":"BSc","institution":"MIT","graduationYear":"2019"}]}`

const jobsReply = `[{"jobTitle":"Backend Engineer","company":"Globex","location":"Remote","description":"Build APIs.","skills":["Go","SQL"]}]`

func newTestService(t *testing.T, gen *fakeGenerator, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithLogger(logging.NewNopLogger())}, opts...)
	s, err := NewService(gen, opts...)
	require.NoError(t, err)
	return s
}

func statusOf(t *testing.T, err error) (int, string) {
	t.Helper()
	require.Error(t, err)
	return utils.StatusAndMessage(err)
}

func TestHandleRequiresCredential(t *testing.T) {
	gen := &fakeGenerator{configured: false}
	s := newTestService(t, gen)

	_, err := s.Handle(context.Background(), "parseResume", json.RawMessage(`{"resumeText":"x"}`))
	code, msg := statusOf(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "API_KEY not configured", msg)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Empty(t, gen.calls())
}

func TestHandleMissingEndpointOrPayload(t *testing.T) {
	s := newTestService(t, &fakeGenerator{configured: true})

	for _, tc := range []struct {
		endpoint string
		payload  string
	}{
		{"", `{"resumeText":"x"}`},
		{"parseResume", ``},
		{"parseResume", `null`},
	} {
		_, err := s.Handle(context.Background(), tc.endpoint, json.RawMessage(tc.payload))
		code, msg := statusOf(t, err)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Missing endpoint or payload", msg)
	}
}

func TestHandleUnknownEndpoint(t *testing.T) {
	gen := &fakeGenerator{configured: true}
	s := newTestService(t, gen)

	_, err := s.Handle(context.Background(), "deleteEverything", json.RawMessage(`{}`))
	code, msg := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Unknown endpoint: deleteEverything", msg)
	assert.True(t, errors.Is(err, ErrUnknownEndpoint))
	assert.Empty(t, gen.calls())
}

func TestParseResumeReturnsModelJSON(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: resumeReply}
	s := newTestService(t, gen)

	body, err := s.Handle(context.Background(), "parseResume", json.RawMessage(`{"resumeText":"Jane Doe, engineer"}`))
	require.NoError(t, err)

	var parsed models.ParsedResume
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "Jane Doe", parsed.FullName)
	assert.Nil(t, parsed.Phone)

	calls := gen.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Parse the following resume text: \n\nJane Doe, engineer", calls[0].Prompt)
	assert.True(t, calls[0].WantsJSON())
}

func TestParseResumeCleansHTML(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: resumeReply}
	s := newTestService(t, gen)

	payload, _ := json.Marshal(models.ParseResumePayload{ResumeText: "<div><p>Jane Doe</p><script>x()</script></div>"})
	_, err := s.Handle(context.Background(), "parseResume", payload)
	require.NoError(t, err)

	prompt := gen.calls()[0].Prompt
	assert.Contains(t, prompt, "Jane Doe")
	assert.NotContains(t, prompt, "<p>")
	assert.NotContains(t, prompt, "x()")
}

func TestParseResumeRejectsBlankText(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: resumeReply}
	s := newTestService(t, gen)

	_, err := s.Handle(context.Background(), "parseResume", json.RawMessage(`{"resumeText":"   "}`))
	code, _ := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Empty(t, gen.calls())
}

func TestSchemaViolationIsServerError(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: `{"fullName":"Jane"}`}
	s := newTestService(t, gen)

	_, err := s.Handle(context.Background(), "parseResume", json.RawMessage(`{"resumeText":"Jane"}`))
	code, msg := statusOf(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, msg, "does not match schema")
}

func TestMalformedReplyIsServerError(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: `Sure! Here are some jobs`}
	s := newTestService(t, gen)

	_, err := s.Handle(context.Background(), "findSimilarJobs",
		json.RawMessage(`{"job":{"jobTitle":"Dev","company":"Acme"}}`))
	code, _ := statusOf(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestUpstreamErrorMessageSurfaces(t *testing.T) {
	gen := &fakeGenerator{configured: true, err: errors.New("quota exceeded")}
	s := newTestService(t, gen)

	_, err := s.Handle(context.Background(), "findMatchingJobs",
		json.RawMessage(`{"profile":{"fullName":"Jane","email":"j@x.io","skills":["Go"]}}`))
	code, msg := statusOf(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "quota exceeded", msg)
}

func TestFindMatchingJobsEmbedsProfile(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: jobsReply}
	s := newTestService(t, gen)

	body, err := s.Handle(context.Background(), "findMatchingJobs",
		json.RawMessage(`{"profile":{"fullName":"Jane","email":"j@x.io","skills":["Go"]}}`))
	require.NoError(t, err)

	var jobs []models.JobListing
	require.NoError(t, json.Unmarshal(body, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "Globex", jobs[0].Company)

	prompt := gen.calls()[0].Prompt
	assert.True(t, strings.HasPrefix(prompt, "Based on this profile, find 3 fictional jobs: {"))
	assert.Contains(t, prompt, `"fullName":"Jane"`)
}

func TestAnalyzeJobDescriptionValidatesJobInfo(t *testing.T) {
	gen := &fakeGenerator{configured: true}
	s := newTestService(t, gen)

	_, err := s.Handle(context.Background(), "analyzeJobDescription",
		json.RawMessage(`{"jobInfo":{"title":"Dev"}}`))
	code, msg := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, msg, "Company is required")
	assert.Empty(t, gen.calls())
}

func TestAnalyzeJobDescription(t *testing.T) {
	gen := &fakeGenerator{configured: true,
		reply: `{"suggestedSkills":["Go"],"suggestedCategory":"Engineering","clarityFeedback":"Clear."}`}
	s := newTestService(t, gen)

	body, err := s.Handle(context.Background(), "analyzeJobDescription",
		json.RawMessage(`{"jobInfo":{"title":"Dev","company":"Acme","description":"Write code"}}`))
	require.NoError(t, err)

	var analysis models.JobAnalysis
	require.NoError(t, json.Unmarshal(body, &analysis))
	assert.Equal(t, "Engineering", analysis.SuggestedCategory)
	assert.Equal(t, `Analyze this job posting: {"title":"Dev","company":"Acme","description":"Write code"}`, gen.calls()[0].Prompt)
}

func TestFindSimilarJobsPrompt(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: `[]`}
	s := newTestService(t, gen)

	body, err := s.Handle(context.Background(), "findSimilarJobs",
		json.RawMessage(`{"job":{"jobTitle":"Dev","company":"Acme","location":"NYC","description":"Code"}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
	assert.Equal(t,
		`Find 3 similar fictional jobs for this posting: {"jobTitle":"Dev","company":"Acme","location":"NYC","description":"Code"}`,
		gen.calls()[0].Prompt)
}

func TestGenerateResourceContentPersonas(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "Step one..."}
	s := newTestService(t, gen)

	body, err := s.Handle(context.Background(), "generateResourceContent",
		json.RawMessage(`{"topic":"Salary Negotiation Strategies","audience":"Job Seeker"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"Step one..."}`, string(body))

	_, err = s.Handle(context.Background(), "generateResourceContent",
		json.RawMessage(`{"topic":"Onboarding Best Practices","audience":"Employer"}`))
	require.NoError(t, err)

	calls := gen.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "You are an expert career coach.", calls[0].System)
	assert.Equal(t, `Provide a guide on: "Salary Negotiation Strategies".`, calls[0].Prompt)
	assert.False(t, calls[0].WantsJSON())
	assert.Equal(t, "You are an expert hiring manager.", calls[1].System)
}

func TestGenerateResourceContentRejectsUnknownAudience(t *testing.T) {
	s := newTestService(t, &fakeGenerator{configured: true})

	_, err := s.Handle(context.Background(), "generateResourceContent",
		json.RawMessage(`{"topic":"Tips","audience":"Recruiter"}`))
	code, _ := statusOf(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestResourceCacheHitSkipsModel(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "fresh"}
	cache := &memoryCache{entries: map[string]string{"Employer|Onboarding Best Practices": "cached"}}
	s := newTestService(t, gen, WithCache(cache))

	body, err := s.Handle(context.Background(), "generateResourceContent",
		json.RawMessage(`{"topic":"Onboarding Best Practices","audience":"Employer"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"cached"}`, string(body))
	assert.Empty(t, gen.calls())
}

func TestResourceCacheMissStores(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "fresh"}
	cache := &memoryCache{entries: map[string]string{}}
	s := newTestService(t, gen, WithCache(cache))

	_, err := s.Handle(context.Background(), "generateResourceContent",
		json.RawMessage(`{"topic":"Tips","audience":"Job Seeker"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, "fresh", cache.entries["Job Seeker|Tips"])
}

func TestResourceCacheFailureFallsThrough(t *testing.T) {
	gen := &fakeGenerator{configured: true, reply: "fresh"}
	cache := &memoryCache{entries: map[string]string{}, getErr: errors.New("redis down")}
	s := newTestService(t, gen, WithCache(cache))

	body, err := s.Handle(context.Background(), "generateResourceContent",
		json.RawMessage(`{"topic":"Tips","audience":"Job Seeker"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"fresh"}`, string(body))
	assert.Len(t, gen.calls(), 1)
}
