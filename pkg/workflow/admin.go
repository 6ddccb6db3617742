package workflow

import (
	"context"
	"sync"

	"jobportal/pkg/models"
)

// AdminView is what the review dashboard renders
type AdminView struct {
	Pending []models.Job
	// Selected is set only while the selected job is still pending
	Selected       *models.Job
	Similar        []models.Job
	SimilarError   string
	FindingSimilar bool
}

// Admin drives the review dashboard. Role checks are left to the caller.
type Admin struct {
	store *Store
	api   API

	mu         sync.Mutex
	selectedID string
	similar    []models.Job
	similarErr string
	finding    bool
	// bumped on every selection so results for an earlier job are dropped
	generation uint64
}

// NewAdmin creates the review flow over store
func NewAdmin(store *Store, api API) *Admin {
	return &Admin{store: store, api: api}
}

// View returns the pending jobs and the selection state
func (a *Admin) View() AdminView {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := AdminView{
		Pending:        a.store.PendingJobs(),
		SimilarError:   a.similarErr,
		FindingSimilar: a.finding,
	}
	if a.similar != nil {
		v.Similar = cloneJobs(a.similar)
	}
	if job, ok := a.selectedLocked(); ok {
		v.Selected = &job
	}
	return v
}

func (a *Admin) selectedLocked() (models.Job, bool) {
	if a.selectedID == "" {
		return models.Job{}, false
	}
	job, ok := a.store.Job(a.selectedID)
	if !ok || job.Status != models.JobStatusPending {
		return models.Job{}, false
	}
	return job, true
}

// Select focuses a job and clears the previous similar-jobs result and error
func (a *Admin) Select(jobID string) error {
	if _, ok := a.store.Job(jobID); !ok {
		return ErrUnknownJob
	}

	a.mu.Lock()
	a.selectedID = jobID
	a.similar = nil
	a.similarErr = ""
	a.finding = false
	a.generation++
	a.mu.Unlock()

	a.store.publish(Event{Kind: EventAdmin, JobID: jobID})
	return nil
}

// Approve moves a pending job to approved
func (a *Admin) Approve(jobID string) error {
	return a.store.SetJobStatus(jobID, models.JobStatusApproved)
}

// Reject moves a pending job to rejected
func (a *Admin) Reject(jobID string) error {
	return a.store.SetJobStatus(jobID, models.JobStatusRejected)
}

// FindSimilar queries jobs similar to the selected one. It never changes the job.
func (a *Admin) FindSimilar(ctx context.Context) ([]models.Job, error) {
	a.mu.Lock()
	job, ok := a.selectedLocked()
	if !ok {
		a.mu.Unlock()
		return nil, ErrNoSelection
	}
	if a.finding {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.finding = true
	a.similar = nil
	a.similarErr = ""
	generation := a.generation
	a.mu.Unlock()
	a.store.publish(Event{Kind: EventAdmin, JobID: job.ID})

	jobs, err := a.api.FindSimilarJobs(ctx, job)

	a.mu.Lock()
	if a.generation != generation {
		a.mu.Unlock()
		return nil, ErrSuperseded
	}
	a.finding = false
	if a.store.Closed() {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	if err != nil {
		a.similarErr = err.Error()
		a.mu.Unlock()
		a.store.publish(Event{Kind: EventAdmin, JobID: job.ID})
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	a.similar = cloneJobs(jobs)
	a.mu.Unlock()

	a.store.publish(Event{Kind: EventAdmin, JobID: job.ID})
	return jobs, nil
}
