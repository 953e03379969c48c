package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic watchlist scan on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
	job  func()
}

// New creates a Scheduler around the given job. Cron specs use the
// seconds-field format ("0 */15 * * * *" = every 15 minutes).
func New(job func()) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		job:  job,
	}
}

// Register adds the scan job under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.job); err != nil {
		return fmt.Errorf("register watchlist scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[SCHED] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[SCHED] scheduler stopped")
}

// RunNow executes the scan job immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.job()
}
