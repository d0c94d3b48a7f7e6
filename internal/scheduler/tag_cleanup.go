package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/giftags/internal/tasks"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// CleanupEnqueuer hands the cleanup to the task queue. tasks.Client implements it.
type CleanupEnqueuer interface {
	EnqueueOrphanTagsCleanup() (string, error)
}

// TagCleanupScheduler periodically removes tags that no GIF uses anymore.
// With a task queue the job only enqueues the cleanup; without one it runs inline.
type TagCleanupScheduler struct {
	schedule string
	cleaner  tasks.OrphanTagsCleaner
	enqueuer CleanupEnqueuer

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewTagCleanupScheduler creates a new scheduler instance. enqueuer may be nil.
func NewTagCleanupScheduler(schedule string, cleaner tasks.OrphanTagsCleaner, enqueuer CleanupEnqueuer) *TagCleanupScheduler {
	return &TagCleanupScheduler{
		schedule: schedule,
		cleaner:  cleaner,
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the job and starts the cron loop. It stops when ctx is cancelled.
func (s *TagCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup(cancelCtx)
	})
	if err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule tag cleanup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Info().
		Str("schedule", s.schedule).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("Tag cleanup scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *TagCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Info().Msg("Tag cleanup scheduler stopped")
}

// RunNow triggers the job immediately in the calling goroutine.
func (s *TagCleanupScheduler) RunNow(ctx context.Context) {
	s.runCleanup(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *TagCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur
func (s *TagCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *TagCleanupScheduler) runCleanup(ctx context.Context) {
	if s.enqueuer != nil {
		taskID, err := s.enqueuer.EnqueueOrphanTagsCleanup()
		if err != nil {
			log.Error().Err(err).Msg("Tag cleanup: failed to enqueue task")
			return
		}
		log.Info().Str("task_id", taskID).Msg("Tag cleanup: task enqueued")
		return
	}

	deleted, err := s.cleaner.DeleteOrphanTags(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Tag cleanup failed")
		return
	}
	log.Info().Int64("deleted", deleted).Msg("Tag cleanup: removed orphan tags")
}
