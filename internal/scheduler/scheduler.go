package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// DefaultCleanupInterval is how often completed sessions are swept when
// nothing else is configured
const DefaultCleanupInterval = 1 * time.Hour

// Maintenance is the session-manager surface the scheduler drives
type Maintenance interface {
	ClearCompletedSessions() (int, error)
}

// Scheduler manages scheduled maintenance tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  Maintenance
	interval  time.Duration
	log       *zap.SugaredLogger
}

// New creates a new scheduler instance sweeping completed sessions at the
// given interval
func New(sessions Maintenance, interval time.Duration, log *zap.SugaredLogger) *Scheduler {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sessions:  sessions,
		interval:  interval,
		log:       log,
	}
}

// Start begins running all scheduled tasks in a non-blocking manner
func (s *Scheduler) Start() {
	s.scheduler.Every(s.interval).Do(s.runCleanup)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runCleanup deletes completed sessions whose review queue is empty.
// The manager re-checks live pending counts, so a session still awaiting
// review is never swept.
func (s *Scheduler) runCleanup() {
	cleared, err := s.sessions.ClearCompletedSessions()
	if err != nil {
		s.log.Warnw("session cleanup failed", "error", err)
		return
	}
	if cleared > 0 {
		s.log.Infow("cleared completed sessions", "count", cleared)
	}
}
