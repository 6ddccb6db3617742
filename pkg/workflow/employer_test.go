package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/pkg/models"
)

func fullDraft() Draft {
	return Draft{Title: "Backend Engineer", Company: "Acme", Location: "Remote", Description: "Build APIs in Go."}
}

func TestEmployerValidation(t *testing.T) {
	store, _ := newTestStore(t)
	api := newFakeAPI()
	employer := NewEmployer(store, api)

	for _, d := range []Draft{
		{Company: "Acme", Description: "x"},
		{Title: "Dev", Description: "x"},
		{Title: "Dev", Company: "Acme", Description: "  "},
	} {
		employer.SetDraft(d)
		_, err := employer.Submit(context.Background())
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, MsgJobFieldsRequired, err.Error())
	}

	assert.Zero(t, api.count("analyze"))
	assert.Empty(t, store.Jobs())
	assert.Equal(t, MsgJobFieldsRequired, employer.View().Error)
}

func TestEmployerLocationIsOptional(t *testing.T) {
	store, _ := newTestStore(t)
	api := newFakeAPI()
	api.analyze = func(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error) {
		return &models.JobAnalysis{SuggestedSkills: []string{"Go"}}, nil
	}
	employer := NewEmployer(store, api)

	d := fullDraft()
	d.Location = ""
	employer.SetDraft(d)
	_, err := employer.Submit(context.Background())
	require.NoError(t, err)
}

func TestEmployerAnalysisFailureAddsNothing(t *testing.T) {
	store, _ := newTestStore(t)
	api := newFakeAPI()
	api.analyze = func(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error) {
		return nil, errUpstream
	}
	employer := NewEmployer(store, api)
	employer.SetDraft(fullDraft())

	_, err := employer.Submit(context.Background())
	assert.ErrorIs(t, err, errUpstream)
	assert.Empty(t, store.Jobs())

	v := employer.View()
	assert.Equal(t, EmployerDrafting, v.State)
	assert.Equal(t, errUpstream.Error(), v.Error)
	assert.Equal(t, fullDraft(), v.Draft)
}

func TestEmployerSubmitAddsPendingJobAndResetsForm(t *testing.T) {
	store, clock := newTestStore(t)
	api := newFakeAPI()
	analysis := &models.JobAnalysis{
		SuggestedSkills:   []string{"Go", "PostgreSQL"},
		SuggestedCategory: "Engineering",
		ClarityFeedback:   "Clear and concise.",
	}
	api.analyze = func(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error) {
		assert.Equal(t, models.JobInfo{Title: "Backend Engineer", Company: "Acme", Description: "Build APIs in Go."}, info)
		return analysis, nil
	}
	employer := NewEmployer(store, api)
	employer.SetDraft(fullDraft())

	job, err := employer.Submit(context.Background())
	require.NoError(t, err)

	jobs := store.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)
	assert.Equal(t, "job_emp_1", jobs[0].ID)
	assert.Equal(t, models.JobStatusPending, jobs[0].Status)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, jobs[0].Skills)
	require.NotNil(t, jobs[0].Analysis)
	assert.Equal(t, "Engineering", jobs[0].Analysis.SuggestedCategory)
	assert.Equal(t, "Remote", jobs[0].Location)

	v := employer.View()
	assert.Equal(t, EmployerSubmitted, v.State)
	assert.NotNil(t, v.Analysis)

	clock.Advance(FormResetDelay - time.Millisecond)
	assert.Equal(t, EmployerSubmitted, employer.View().State)

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool {
		v := employer.View()
		return v.State == EmployerDrafting && v.Draft == Draft{} && v.Analysis == nil
	}, waitFor, tick)

	// the submitted job survives the form reset
	assert.Len(t, store.PendingJobs(), 1)
}

func TestEmployerBusy(t *testing.T) {
	store, _ := newTestStore(t)
	api := newFakeAPI()
	release := make(chan struct{})
	api.analyze = func(ctx context.Context, info models.JobInfo) (*models.JobAnalysis, error) {
		<-release
		return &models.JobAnalysis{}, nil
	}
	employer := NewEmployer(store, api)
	employer.SetDraft(fullDraft())

	done := make(chan error, 1)
	go func() {
		_, err := employer.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return employer.View().State == EmployerAnalyzing }, waitFor, tick)

	_, err := employer.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, store.Jobs(), 1)
}
