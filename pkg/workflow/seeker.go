package workflow

import (
	"context"
	"sync"

	"jobportal/pkg/models"
	"jobportal/pkg/utils"
)

// SeekerState is the position of the job seeker in the resume-to-application flow
type SeekerState string

const (
	SeekerIdle         SeekerState = "Idle"
	SeekerParsing      SeekerState = "Parsing"
	SeekerProfiled     SeekerState = "Profiled"
	SeekerMatchingJobs SeekerState = "MatchingJobs"
	SeekerMatched      SeekerState = "Matched"
)

// SeekerView is a copy of the seeker flow state
type SeekerView struct {
	State      SeekerState
	Profile    *models.ParsedResume
	Matches    []models.Job
	ParseError string
	MatchError string
	ShowW4     bool
}

// Seeker drives resume parsing, job matching and applying. Parse and match are
// independent slots; each allows one outstanding call.
type Seeker struct {
	store *Store
	api   API

	mu       sync.Mutex
	parsing  bool
	matching bool
	matched  bool
	profile  *models.ParsedResume
	matches  []models.Job
	parseErr string
	matchErr string
	showW4   bool
	// bumped by every parse so in-flight matches for an older profile are dropped
	generation uint64
}

// NewSeeker creates the job seeker flow over store
func NewSeeker(store *Store, api API) *Seeker {
	return &Seeker{store: store, api: api}
}

// View returns a copy of the current state
func (s *Seeker) View() SeekerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SeekerView{
		State:      s.stateLocked(),
		Profile:    s.profile.Clone(),
		Matches:    cloneJobs(s.matches),
		ParseError: s.parseErr,
		MatchError: s.matchErr,
		ShowW4:     s.showW4,
	}
	if s.matches == nil {
		v.Matches = nil
	}
	return v
}

func (s *Seeker) stateLocked() SeekerState {
	switch {
	case s.parsing:
		return SeekerParsing
	case s.profile == nil:
		return SeekerIdle
	case s.matching:
		return SeekerMatchingJobs
	case s.matched:
		return SeekerMatched
	default:
		return SeekerProfiled
	}
}

// SubmitResume parses resumeText into a profile. Blank text fails locally with
// ErrValidation. Starting a parse discards the previous profile, its matches
// and the W-4 preview.
func (s *Seeker) SubmitResume(ctx context.Context, resumeText string) (*models.ParsedResume, error) {
	s.mu.Lock()
	if s.parsing {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if utils.IsBlank(resumeText) {
		s.parseErr = MsgResumeRequired
		s.mu.Unlock()
		s.store.publish(Event{Kind: EventSeeker})
		return nil, &ValidationError{Message: MsgResumeRequired}
	}

	s.parsing = true
	s.parseErr = ""
	s.profile = nil
	s.matches = nil
	s.matched = false
	s.matching = false
	s.matchErr = ""
	s.showW4 = false
	s.generation++
	s.mu.Unlock()
	s.store.publish(Event{Kind: EventSeeker})

	profile, err := s.api.ParseResume(ctx, resumeText)

	s.mu.Lock()
	s.parsing = false
	if s.store.Closed() {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if err != nil {
		s.parseErr = err.Error()
		s.mu.Unlock()
		s.store.publish(Event{Kind: EventSeeker})
		return nil, err
	}
	s.profile = profile.Clone()
	s.mu.Unlock()

	s.store.publish(Event{Kind: EventSeeker})
	return profile, nil
}

// FindJobs requests jobs matching the current profile. The previous list is
// cleared before the request is sent.
func (s *Seeker) FindJobs(ctx context.Context) ([]models.Job, error) {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return nil, ErrNoProfile
	}
	if s.matching {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.matching = true
	s.matched = false
	s.matches = nil
	s.matchErr = ""
	generation := s.generation
	profile := s.profile.Clone()
	s.mu.Unlock()
	s.store.publish(Event{Kind: EventSeeker})

	jobs, err := s.api.FindMatchingJobs(ctx, profile)

	s.mu.Lock()
	if s.generation != generation {
		// a new parse has already reset the match slot
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.matching = false
	if s.store.Closed() {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if err != nil {
		s.matchErr = err.Error()
		s.mu.Unlock()
		s.store.publish(Event{Kind: EventSeeker})
		return nil, err
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	s.matches = cloneJobs(jobs)
	s.matched = true
	s.mu.Unlock()

	s.store.publish(Event{Kind: EventSeeker})
	return jobs, nil
}

// Apply creates an application for one of the matched jobs. Applying twice to
// the same job id is a no-op and reports false.
func (s *Seeker) Apply(jobID string) (bool, error) {
	s.mu.Lock()
	var job *models.Job
	for i := range s.matches {
		if s.matches[i].ID == jobID {
			j := s.matches[i].Clone()
			job = &j
			break
		}
	}
	s.mu.Unlock()

	if job == nil {
		return false, ErrUnknownJob
	}
	return s.store.Apply(*job)
}

// SetW4Preview toggles the W-4 preview for the current profile
func (s *Seeker) SetW4Preview(show bool) error {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	s.showW4 = show
	s.mu.Unlock()

	s.store.publish(Event{Kind: EventSeeker})
	return nil
}

// W4 returns the W-4 fields prefilled from the current profile
func (s *Seeker) W4() (W4Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return W4Form{}, ErrNoProfile
	}
	return W4Prefill(s.profile), nil
}
