package workflow

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"jobportal/internal/logging"
)

// Scheduler owns deferred tasks. Flows never cancel a task; Stop drops the ones still pending.
type Scheduler struct {
	clock  clockwork.Clock
	logger logging.Logger

	mu     sync.Mutex
	timers map[uint64]clockwork.Timer
	nextID uint64
	closed bool
}

// NewScheduler creates a scheduler on clock; nil arguments fall back to the real clock and a nop logger
func NewScheduler(clock clockwork.Clock, logger logging.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Scheduler{
		clock:  clock,
		logger: logger,
		timers: make(map[uint64]clockwork.Timer),
	}
}

// After runs fn once d has elapsed on the scheduler clock. It reports false
// when the scheduler is already stopped.
func (s *Scheduler) After(d time.Duration, name string, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.nextID++
	id := s.nextID
	s.timers[id] = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()

		s.logger.Debug("Deferred task fired", map[string]interface{}{"task": name})
		fn()
	})

	s.logger.Debug("Deferred task scheduled", map[string]interface{}{
		"task":  name,
		"delay": d.String(),
	})
	return true
}

// Pending returns the number of tasks that have not fired yet
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop drops pending tasks; later After calls are ignored
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Now returns the scheduler clock's current time
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}
