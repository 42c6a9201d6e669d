package scheduler

import (
	"time"

	"github.com/fieldhouse/fieldhouse/internal/completion"
)

// Abandoned completion sessions are checked every 15 minutes.
const sweepCron = "*/15 * * * *"

// RegisterCompletionSweep schedules the job that discards completion
// sessions idle longer than ttl.
func (s *Service) RegisterCompletionSweep(manager *completion.Manager, ttl time.Duration) error {
	_, err := s.AddJob("completion-session-sweep", sweepCron, func() {
		manager.Sweep(ttl)
	})
	return err
}
