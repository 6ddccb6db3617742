package workflow

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"jobportal/internal/logging"
	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

// UnderReviewDelay is how long an application stays Applied before it is moved to Under Review
const UnderReviewDelay = 15 * time.Second

// appliedDateLayout renders dates as M/D/YYYY
const appliedDateLayout = "1/2/2006"

// EventKind names the part of the state that changed
type EventKind string

const (
	EventJobs         EventKind = "jobs"
	EventApplications EventKind = "applications"
	EventIdentity     EventKind = "identity"
	EventSeeker       EventKind = "seeker"
	EventEmployer     EventKind = "employer"
	EventAdmin        EventKind = "admin"
	EventResources    EventKind = "resources"
)

// Event is delivered to subscribers after every change
type Event struct {
	Kind  EventKind
	JobID string
}

// Snapshot is a deep copy of the shared state
type Snapshot struct {
	Jobs         []models.Job
	Applications []models.Application
	User         *User
}

// Store is the single shared state container of a session: the job collection
// visible to admins, the seeker's applications and the signed-in user.
// Mutators are its only writers.
type Store struct {
	mu           sync.RWMutex
	jobs         []models.Job
	applications []models.Application
	user         *User
	closed       bool

	subMu   sync.Mutex
	subs    map[uint64]func(Event)
	nextSub uint64

	scheduler *Scheduler
	newID     func() string
	logger    logging.Logger
}

// Option configures a Store
type Option func(*storeOptions)

type storeOptions struct {
	clock  clockwork.Clock
	logger logging.Logger
	newID  func() string
}

// WithClock sets the clock driving deferred transitions
func WithClock(clock clockwork.Clock) Option {
	return func(o *storeOptions) { o.clock = clock }
}

// WithLogger sets the logger for store and scheduler events
func WithLogger(logger logging.Logger) Option {
	return func(o *storeOptions) { o.logger = logger }
}

// WithIDGenerator sets the generator for employer-submitted job ids
func WithIDGenerator(fn func() string) Option {
	return func(o *storeOptions) { o.newID = fn }
}

// NewStore creates an empty store on the real clock unless WithClock is given
func NewStore(opts ...Option) *Store {
	o := storeOptions{
		clock:  clockwork.NewRealClock(),
		logger: logging.NewNopLogger(),
		newID:  utils.GenerateJobID,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		subs:      make(map[uint64]func(Event)),
		scheduler: NewScheduler(o.clock, o.logger),
		newID:     o.newID,
		logger:    o.logger,
	}
}

// Subscribe registers fn for change events and returns its unsubscribe function.
// fn runs synchronously on the mutating goroutine and may call Snapshot.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(e Event) {
	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

// Snapshot returns deep copies of the jobs, applications and user
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Jobs:         cloneJobs(s.jobs),
		Applications: make([]models.Application, len(s.applications)),
	}
	for i, app := range s.applications {
		app.Job = app.Job.Clone()
		snap.Applications[i] = app
	}
	if s.user != nil {
		u := s.user.clone()
		snap.User = &u
	}
	return snap
}

// Jobs returns a copy of the job collection in submission order
func (s *Store) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneJobs(s.jobs)
}

// PendingJobs returns the jobs still awaiting review
func (s *Store) PendingJobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []models.Job
	for _, j := range s.jobs {
		if j.Status == models.JobStatusPending {
			pending = append(pending, j.Clone())
		}
	}
	return pending
}

// Job looks a job up by id
func (s *Store) Job(id string) (models.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.jobIndex(id); i >= 0 {
		return s.jobs[i].Clone(), true
	}
	return models.Job{}, false
}

func (s *Store) jobIndex(id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

// AddJob appends a job to the collection; ids are unique for the store's lifetime
func (s *Store) AddJob(job models.Job) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.jobIndex(job.ID) >= 0 {
		s.mu.Unlock()
		return ErrDuplicateJob
	}
	s.jobs = append(s.jobs, job.Clone())
	s.mu.Unlock()

	s.logger.Info("Job added", map[string]interface{}{
		"job_id": job.ID,
		"status": string(job.Status),
	})
	s.publish(Event{Kind: EventJobs, JobID: job.ID})
	return nil
}

// SetJobStatus moves a pending job to approved or rejected. Both are terminal.
func (s *Store) SetJobStatus(id string, status models.JobStatus) error {
	if !status.IsTerminal() {
		return ErrInvalidTransition
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	i := s.jobIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrUnknownJob
	}
	if s.jobs[i].Status != models.JobStatusPending {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.jobs[i].Status = status
	s.mu.Unlock()

	s.logger.Info("Job reviewed", map[string]interface{}{
		"job_id": id,
		"status": string(status),
	})
	s.publish(Event{Kind: EventJobs, JobID: id})
	return nil
}

// Applications returns the applications, most recent first
func (s *Store) Applications() []models.Application {
	return s.Snapshot().Applications
}

// Apply records an application for job unless one exists for the same job id.
// It reports whether a new application was created. The status moves to
// Under Review after UnderReviewDelay.
func (s *Store) Apply(job models.Job) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	for _, app := range s.applications {
		if app.Job.ID == job.ID {
			s.mu.Unlock()
			return false, nil
		}
	}

	app := models.Application{
		Job:         job.Clone(),
		Status:      models.ApplicationApplied,
		AppliedDate: s.scheduler.Now().Format(appliedDateLayout),
	}
	s.applications = append([]models.Application{app}, s.applications...)
	s.mu.Unlock()

	jobID := job.ID
	s.scheduler.After(UnderReviewDelay, "application_under_review", func() {
		s.setApplicationStatus(jobID, models.ApplicationUnderReview)
	})

	s.logger.Info("Application created", map[string]interface{}{"job_id": jobID})
	s.publish(Event{Kind: EventApplications, JobID: jobID})
	return true, nil
}

// setApplicationStatus is a no-op when no application exists for jobID
func (s *Store) setApplicationStatus(jobID string, status models.ApplicationStatus) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	changed := false
	for i := range s.applications {
		if s.applications[i].Job.ID == jobID {
			s.applications[i].Status = status
			changed = true
		}
	}
	s.mu.Unlock()

	if changed {
		s.publish(Event{Kind: EventApplications, JobID: jobID})
	}
}

// Close stops deferred tasks. Later mutations fail with ErrClosed and late
// responses are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.scheduler.Stop()
	s.logger.Debug("Store closed")
}

// Closed reports whether Close has been called
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Scheduler exposes the store's deferred-task owner
func (s *Store) Scheduler() *Scheduler {
	return s.scheduler
}

func (s *Store) nextJobID() string {
	return s.newID()
}

func cloneJobs(jobs []models.Job) []models.Job {
	out := make([]models.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}
