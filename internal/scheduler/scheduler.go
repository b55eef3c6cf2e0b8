// Package scheduler runs the daily reminder pass and the batch cycle
// rollover on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"huku/internal/services"
)

// Scheduler manages the recurring jobs of the reminder worker.
type Scheduler struct {
	cron      *cron.Cron
	reminders *services.ReminderService
	batches   *services.BatchService
}

func New(reminders *services.ReminderService, batches *services.BatchService) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		reminders: reminders,
		batches:   batches,
	}
}

// Start registers the jobs and begins the cron loop. The reminder pass
// runs on the given expression, the cycle rollover daily at midnight.
func (s *Scheduler) Start(reminderSpec string) error {
	if _, err := s.cron.AddFunc(reminderSpec, s.runReminderPass); err != nil {
		return fmt.Errorf("schedule reminder pass: %w", err)
	}
	if _, err := s.cron.AddFunc("0 0 * * *", s.runCycleRollover); err != nil {
		return fmt.Errorf("schedule cycle rollover: %w", err)
	}

	s.cron.Start()
	slog.Info("Scheduler started", "reminder_spec", reminderSpec)
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		slog.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		slog.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) runReminderPass() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := s.reminders.PublishDue(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "Reminder pass failed", "error", err)
		return
	}
	slog.InfoContext(ctx, "Reminder pass completed", "published", n)
}

func (s *Scheduler) runCycleRollover() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := s.batches.CompleteElapsedBatches(ctx, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "Cycle rollover failed", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Cycle rollover completed", "batches_completed", n)
	}
}
