// Package reminder runs one-shot, cancellable callbacks at a wall-clock
// instant. Jobs live in process memory; callers persist the fire instant and
// re-register jobs after a restart.
package reminder

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// DefaultLead is how long before the end of maintenance the reminder fires.
const DefaultLead = 24 * time.Hour

// FireFunc runs when a job fires. late is true when the job was restored after
// its fire instant had already passed.
type FireFunc func(late bool)

// Job describes a registered reminder.
type Job struct {
	ID     string
	FireAt time.Time
}

type entry struct {
	job   Job
	timer clockwork.Timer
}

type Scheduler struct {
	clock clockwork.Clock
	lead  time.Duration
	log   logrus.FieldLogger

	mu   sync.Mutex
	jobs map[string]*entry
}

// New builds a scheduler on clock. A nil clock means wall time.
func New(clock clockwork.Clock, lead time.Duration, log logrus.FieldLogger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if lead <= 0 {
		lead = DefaultLead
	}
	return &Scheduler{
		clock: clock,
		lead:  lead,
		log:   log.WithField("component", "reminder"),
		jobs:  make(map[string]*entry),
	}
}

func (s *Scheduler) Now() time.Time { return s.clock.Now() }

// FireAt returns when a reminder for endTime is due.
func (s *Scheduler) FireAt(endTime time.Time) time.Time {
	return endTime.Add(-s.lead)
}

// JobID is the handle name stored alongside the maintenance record.
func JobID(key string) string {
	return "maintenance-reminder-" + key
}

// Schedule registers fn to run lead before endTime, replacing any job already
// registered under key. When that instant is not strictly in the future
// nothing is scheduled and ok is false.
func (s *Scheduler) Schedule(key string, endTime time.Time, fn FireFunc) (job Job, ok bool) {
	fireAt := s.FireAt(endTime)
	now := s.clock.Now()
	if !fireAt.After(now) {
		s.log.WithFields(logrus.Fields{"key": key, "fire_at": fireAt}).Info("reminder time already passed, not scheduling")
		return Job{}, false
	}
	return s.register(key, fireAt, fireAt.Sub(now), fn), true
}

// Restore re-registers a persisted reminder. A fire instant in the past runs
// fn at once, flagged late.
func (s *Scheduler) Restore(key string, fireAt time.Time, fn FireFunc) Job {
	now := s.clock.Now()
	if fireAt.After(now) {
		return s.register(key, fireAt, fireAt.Sub(now), fn)
	}

	s.Cancel(key)
	s.log.WithFields(logrus.Fields{"key": key, "fire_at": fireAt}).Warn("reminder missed while offline, firing late")
	fn(true)
	return Job{ID: JobID(key), FireAt: fireAt}
}

func (s *Scheduler) register(key string, fireAt time.Time, d time.Duration, fn FireFunc) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.jobs[key]; ok {
		old.timer.Stop()
	}

	e := &entry{job: Job{ID: JobID(key), FireAt: fireAt}}
	e.timer = s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		current, ok := s.jobs[key]
		if !ok || current != e {
			// cancelled or replaced after the timer started
			s.mu.Unlock()
			return
		}
		delete(s.jobs, key)
		s.mu.Unlock()

		fn(false)
	})
	s.jobs[key] = e

	s.log.WithFields(logrus.Fields{"key": key, "fire_at": fireAt}).Info("reminder scheduled")
	return e.job
}

// Cancel stops the job registered under key. Unknown or already fired keys
// are a no-op.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[key]
	if !ok {
		return false
	}
	delete(s.jobs, key)
	e.timer.Stop()
	s.log.WithField("key", key).Info("reminder cancelled")
	return true
}

// Pending reports whether a job is registered under key.
func (s *Scheduler) Pending(key string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[key]
	if !ok {
		return Job{}, false
	}
	return e.job, true
}

// Len counts registered jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every job. Used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.jobs {
		e.timer.Stop()
		delete(s.jobs, key)
	}
}
