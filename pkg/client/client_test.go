package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/pkg/models"
)

type recorded struct {
	Endpoint string
	Payload  map[string]interface{}
}

func newServer(t *testing.T, status int, body string, seen *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, DefaultPath, r.URL.Path)
		if seen != nil {
			data, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(data, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("job_%d", n)
	}
}

func TestParseResume(t *testing.T) {
	var seen recorded
	srv := newServer(t, http.StatusOK, `{"fullName":"Jane Doe","email":"jane@x.com","phone":"555","summary":"s","skills":[],"experience":[],"education":[]}`, &seen)

	profile, err := New(srv.URL).ParseResume(context.Background(), "Jane Doe, jane@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.FullName)
	require.NotNil(t, profile.Phone)
	assert.Equal(t, "555", *profile.Phone)
	assert.Nil(t, profile.Address)

	assert.Equal(t, "parseResume", seen.Endpoint)
	assert.Equal(t, "Jane Doe, jane@x.com", seen.Payload["resumeText"])
}

func TestFindMatchingJobsAssignsIDsAndStatus(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[
		{"jobTitle":"A","company":"X","location":"Remote","description":"d","skills":["Go"]},
		{"jobTitle":"B","company":"Y","location":"NYC","description":"d","skills":[]}
	]`, nil)

	jobs, err := New(srv.URL, WithIDGenerator(sequentialIDs())).FindMatchingJobs(context.Background(), &models.ParsedResume{FullName: "Jane"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job_1", jobs[0].ID)
	assert.Equal(t, "job_2", jobs[1].ID)
	for _, j := range jobs {
		assert.Equal(t, models.JobStatusApproved, j.Status)
		assert.Nil(t, j.Analysis)
	}
}

func TestFindMatchingJobsDefaultIDsAreUnique(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[{"jobTitle":"A"},{"jobTitle":"A"},{"jobTitle":"A"}]`, nil)

	jobs, err := New(srv.URL).FindMatchingJobs(context.Background(), &models.ParsedResume{})
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, j := range jobs {
		ids[j.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestFindMatchingJobsEmptyList(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[]`, nil)

	jobs, err := New(srv.URL).FindMatchingJobs(context.Background(), &models.ParsedResume{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestFindSimilarJobsSendsSummary(t *testing.T) {
	var seen recorded
	srv := newServer(t, http.StatusOK, `[]`, &seen)

	job := models.Job{ID: "job_1", JobTitle: "Dev", Company: "Acme", Location: "NYC", Description: "Code",
		Skills: []string{"Go"}, Status: models.JobStatusPending}
	_, err := New(srv.URL).FindSimilarJobs(context.Background(), job)
	require.NoError(t, err)

	sent := seen.Payload["job"].(map[string]interface{})
	assert.Equal(t, "Dev", sent["jobTitle"])
	assert.NotContains(t, sent, "skills")
	assert.NotContains(t, sent, "status")
	assert.NotContains(t, sent, "id")
}

func TestAnalyzeJobDescription(t *testing.T) {
	var seen recorded
	srv := newServer(t, http.StatusOK, `{"suggestedSkills":["Go"],"suggestedCategory":"Eng","clarityFeedback":"ok"}`, &seen)

	analysis, err := New(srv.URL).AnalyzeJobDescription(context.Background(), models.JobInfo{Title: "Dev", Company: "Acme", Description: "Code"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, analysis.SuggestedSkills)
	assert.Equal(t, "analyzeJobDescription", seen.Endpoint)
}

func TestGenerateResourceContent(t *testing.T) {
	var seen recorded
	srv := newServer(t, http.StatusOK, `{"content":"Guide text"}`, &seen)

	content, err := New(srv.URL).GenerateResourceContent(context.Background(), "Onboarding Best Practices", models.AudienceEmployer)
	require.NoError(t, err)
	assert.Equal(t, "Guide text", content)
	assert.Equal(t, "Employer", seen.Payload["audience"])
}

func TestServerErrorMessageIsSurfaced(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `{"error":"quota exceeded"}`, nil)

	_, err := New(srv.URL).ParseResume(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, "Failed during API call. Error: quota exceeded", err.Error())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "quota exceeded", apiErr.Message)
}

func TestFallbackMessageWithoutEnvelope(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, `upstream exploded`, nil)

	_, err := New(srv.URL).FindSimilarJobs(context.Background(), models.Job{JobTitle: "Dev"})
	require.Error(t, err)
	assert.Equal(t, "Failed during API call. Error: API call to endpoint 'findSimilarJobs' failed", err.Error())
}

func TestTransportFailureIsUnknownError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ParseResume(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, UnknownErrorMessage, err.Error())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestUndecodableBodyIsUnknownError(t *testing.T) {
	srv := newServer(t, http.StatusOK, `not json`, nil)

	_, err := New(srv.URL).ParseResume(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, UnknownErrorMessage, err.Error())
}

func TestWithPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/.netlify/functions/api", r.URL.Path)
		_, _ = io.WriteString(w, `{"content":"ok"}`)
	}))
	defer srv.Close()

	content, err := New(srv.URL+"/", WithPath("/.netlify/functions/api")).
		GenerateResourceContent(context.Background(), "Tips", models.AudienceJobSeeker)
	require.NoError(t, err)
	assert.Equal(t, "ok", content)
}
