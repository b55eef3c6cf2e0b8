package services

import (
	"context"
	"log/slog"
	"time"

	"huku/internal/amqp"
	"huku/internal/core"
	"huku/internal/ledger"
)

// ReminderPublisher forwards computed reminders to the notification
// queue. Satisfied by the AMQP client.
type ReminderPublisher interface {
	PublishReminderNotice(ctx context.Context, msg *amqp.ReminderNoticeMessage) error
}

// ReminderService recomputes the due care notices from batch start dates.
// Nothing is persisted, every run derives the same answer from the same
// day.
type ReminderService struct {
	batches   ledger.BatchReader
	publisher ReminderPublisher
}

func NewReminderService(batches ledger.BatchReader, publisher ReminderPublisher) *ReminderService {
	return &ReminderService{batches: batches, publisher: publisher}
}

// Upcoming returns the notices due today across all active batches.
func (s *ReminderService) Upcoming(ctx context.Context, now time.Time) ([]core.Reminder, error) {
	active, err := s.batches.ListBatchesByStatus(ctx, core.StatusActive)
	if err != nil {
		return nil, err
	}
	return core.UpcomingReminders(active, now), nil
}

// PublishDue computes today's notices and pushes each onto the reminder
// queue. Returns the number published.
func (s *ReminderService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	active, err := s.batches.ListBatchesByStatus(ctx, core.StatusActive)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, b := range active {
		reminders := core.UpcomingReminders([]core.Batch{b}, now)
		if len(reminders) == 0 {
			continue
		}
		day := core.BatchProgress(b.StartDate, now).DaysPassed
		for _, r := range reminders {
			msg := &amqp.ReminderNoticeMessage{
				BatchID:    b.ID,
				BatchName:  b.Name,
				DayOfCycle: day,
				Title:      r.Title,
				Message:    r.Message,
				Priority:   string(r.Priority),
				Icon:       r.Icon,
			}
			if s.publisher == nil {
				slog.WarnContext(ctx, "Reminder publisher not available, dropping notice",
					"batch_id", b.ID, "title", r.Title)
				continue
			}
			if err := s.publisher.PublishReminderNotice(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to publish reminder notice",
					"batch_id", b.ID, "title", r.Title, "error", err)
				continue
			}
			published++
		}
	}

	return published, nil
}
