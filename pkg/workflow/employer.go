package workflow

import (
	"context"
	"sync"
	"time"

	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

// FormResetDelay is how long the submission confirmation stays visible before the draft clears
const FormResetDelay = 5 * time.Second

// EmployerState is the phase of the posting form
type EmployerState string

const (
	EmployerDrafting  EmployerState = "Drafting"
	EmployerAnalyzing EmployerState = "Analyzing"
	EmployerSubmitted EmployerState = "Submitted"
)

// Draft is the job posting being edited. Location is optional.
type Draft struct {
	Title       string
	Company     string
	Location    string
	Description string
}

// EmployerView is what the posting form renders
type EmployerView struct {
	State    EmployerState
	Draft    Draft
	Analysis *models.JobAnalysis
	Error    string
}

// Employer drives the draft, analyze and submit sequence
type Employer struct {
	store *Store
	api   API

	mu        sync.Mutex
	draft     Draft
	analyzing bool
	submitted bool
	analysis  *models.JobAnalysis
	err       string
}

// NewEmployer creates the posting flow over store
func NewEmployer(store *Store, api API) *Employer {
	return &Employer{store: store, api: api}
}

// View returns the draft, the analysis and the current phase
func (e *Employer) View() EmployerView {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := EmployerView{
		State: EmployerDrafting,
		Draft: e.draft,
		Error: e.err,
	}
	switch {
	case e.analyzing:
		v.State = EmployerAnalyzing
	case e.submitted:
		v.State = EmployerSubmitted
	}
	if e.analysis != nil {
		a := *e.analysis
		a.SuggestedSkills = append([]string(nil), e.analysis.SuggestedSkills...)
		v.Analysis = &a
	}
	return v
}

// SetDraft replaces the draft fields
func (e *Employer) SetDraft(d Draft) {
	e.mu.Lock()
	e.draft = d
	e.mu.Unlock()

	e.store.publish(Event{Kind: EventEmployer})
}

// Submit analyzes the draft and, on success, adds a pending job carrying the
// analysis to the shared collection. A failed analysis adds nothing.
func (e *Employer) Submit(ctx context.Context) (models.Job, error) {
	e.mu.Lock()
	if e.analyzing {
		e.mu.Unlock()
		return models.Job{}, ErrBusy
	}
	draft := e.draft
	if utils.IsBlank(draft.Title) || utils.IsBlank(draft.Company) || utils.IsBlank(draft.Description) {
		e.err = MsgJobFieldsRequired
		e.mu.Unlock()
		e.store.publish(Event{Kind: EventEmployer})
		return models.Job{}, &ValidationError{Message: MsgJobFieldsRequired}
	}

	e.analyzing = true
	e.submitted = false
	e.analysis = nil
	e.err = ""
	e.mu.Unlock()
	e.store.publish(Event{Kind: EventEmployer})

	// The call runs without the lock held
	analysis, err := e.api.AnalyzeJobDescription(ctx, models.JobInfo{
		Title:       draft.Title,
		Company:     draft.Company,
		Description: draft.Description,
	})

	e.mu.Lock()
	e.analyzing = false
	if e.store.Closed() {
		e.mu.Unlock()
		return models.Job{}, ErrClosed
	}
	if err != nil {
		e.err = err.Error()
		e.mu.Unlock()
		e.store.publish(Event{Kind: EventEmployer})
		return models.Job{}, err
	}
	e.mu.Unlock()

	// Build the pending job from the draft and its analysis
	job := models.Job{
		ID:          e.store.nextJobID(),
		JobTitle:    draft.Title,
		Company:     draft.Company,
		Location:    draft.Location,
		Description: draft.Description,
		Skills:      append([]string(nil), analysis.SuggestedSkills...),
		Status:      models.JobStatusPending,
		Analysis:    analysis,
	}
	if err := e.store.AddJob(job); err != nil {
		e.mu.Lock()
		e.err = err.Error()
		e.mu.Unlock()
		e.store.publish(Event{Kind: EventEmployer})
		return models.Job{}, err
	}

	e.mu.Lock()
	a := *analysis
	e.analysis = &a
	e.submitted = true
	e.mu.Unlock()

	e.store.scheduler.After(FormResetDelay, "employer_form_reset", e.reset)
	e.store.publish(Event{Kind: EventEmployer})
	return job.Clone(), nil
}

func (e *Employer) reset() {
	e.mu.Lock()
	e.draft = Draft{}
	e.analysis = nil
	e.submitted = false
	e.mu.Unlock()

	e.store.publish(Event{Kind: EventEmployer})
}
