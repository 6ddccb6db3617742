package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"jobportal/pkg/models"
)

var errUpstream = errors.New("Failed during API call. Error: quota exceeded")

type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	parse    func(ctx context.Context, text string) (*models.ParsedResume, error)
	match    func(ctx context.Context, profile *models.ParsedResume) ([]models.Job, error)
	analyze  func(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error)
	similar  func(ctx context.Context, job models.Job) ([]models.Job, error)
	resource func(ctx context.Context, topic string, audience models.Audience) (string, error)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) ParseResume(ctx context.Context, text string) (*models.ParsedResume, error) {
	f.record("parse")
	return f.parse(ctx, text)
}

func (f *fakeAPI) FindMatchingJobs(ctx context.Context, profile *models.ParsedResume) ([]models.Job, error) {
	f.record("match")
	return f.match(ctx, profile)
}

func (f *fakeAPI) AnalyzeJobDescription(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error) {
	f.record("analyze")
	return f.analyze(ctx, info)
}

func (f *fakeAPI) FindSimilarJobs(ctx context.Context, job models.Job) ([]models.Job, error) {
	f.record("similar")
	return f.similar(ctx, job)
}

func (f *fakeAPI) GenerateResourceContent(ctx context.Context, topic string, audience models.Audience) (string, error) {
	f.record("resource")
	return f.resource(ctx, topic, audience)
}

func profileNamed(name string, skills ...string) *models.ParsedResume {
	return &models.ParsedResume{FullName: name, Email: "jane@x.com", Skills: skills}
}

func matchedJob(id string) models.Job {
	return models.Job{ID: id, JobTitle: "Engineer " + id, Company: "Acme", Status: models.JobStatusApproved}
}

func newTestStore(t *testing.T) (*Store, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))
	n := 0
	store := NewStore(WithClock(clock), WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("job_emp_%d", n)
	}))
	t.Cleanup(store.Close)
	return store, clock
}

// timer callbacks run on their own goroutine
const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)
