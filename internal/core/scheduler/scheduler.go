// Package scheduler runs cron-triggered background jobs such as data source refreshes.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher re-reads the active data source and re-registers it when its rows changed
type Refresher interface {
	RefreshActiveSource(ctx context.Context) error
}

// Scheduler handles cron-based background jobs
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID // job name -> entry id
	jobsMux sync.RWMutex
	log     zerolog.Logger
}

// New creates a scheduler; expressions support a seconds field
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		jobs: make(map[string]cron.EntryID),
		log:  logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.Jobs())).Msg("⏰ Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("⏰ Scheduler stopped")
}

// AddJob registers job under name, replacing any job with the same name
func (s *Scheduler) AddJob(name, schedule string, job func()) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.log.Info().Str("job", name).Str("schedule", schedule).Msg("✅ Job scheduled")
	return nil
}

// RemoveJob unschedules name if present
func (s *Scheduler) RemoveJob(name string) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.log.Info().Str("job", name).Msg("Job removed")
	}
}

// Jobs returns the scheduled job names, sorted
func (s *Scheduler) Jobs() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScheduleRefresh runs r on schedule, each run bounded by timeout
func (s *Scheduler) ScheduleRefresh(schedule string, timeout time.Duration, r Refresher) error {
	return s.AddJob(RefreshJobName, schedule, s.refreshJob(timeout, r))
}

// RefreshJobName is the name of the source refresh job
const RefreshJobName = "source-refresh"

func (s *Scheduler) refreshJob(timeout time.Duration, r Refresher) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := r.RefreshActiveSource(ctx); err != nil {
			s.log.Error().Err(err).Msg("❌ Source refresh failed")
			return
		}
		s.log.Debug().Dur("took", time.Since(start)).Msg("source refresh done")
	}
}
