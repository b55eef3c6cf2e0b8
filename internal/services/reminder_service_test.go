package services

import (
	"context"
	"testing"
	"time"

	"huku/internal/amqp"
	"huku/internal/core"
)

type recordingReminderPublisher struct {
	notices []*amqp.ReminderNoticeMessage
}

func (p *recordingReminderPublisher) PublishReminderNotice(ctx context.Context, msg *amqp.ReminderNoticeMessage) error {
	p.notices = append(p.notices, msg)
	return nil
}

func TestUpcomingSkipsCompletedBatches(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	active := validBatch()
	active.StartDate = core.NewDate(2026, 1, 1)
	store.CreateBatch(ctx, active)

	done := validBatch()
	done.Name = "December broilers"
	done.StartDate = core.NewDate(2026, 1, 1)
	done.Status = core.StatusCompleted
	store.CreateBatch(ctx, done)

	// Day 9 of the cycle: first vaccination notice.
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	svc := NewReminderService(store, nil)

	got, err := svc.Upcoming(ctx, now)
	if err != nil {
		t.Fatalf("Upcoming: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("reminders = %+v, want 1", got)
	}
	if got[0].Priority != core.PriorityCritical || got[0].Batch != "January broilers" {
		t.Errorf("reminder = %+v", got[0])
	}
}

func TestPublishDue(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	b := validBatch()
	b.StartDate = core.NewDate(2026, 1, 1)
	id, _ := store.CreateBatch(ctx, b)

	pub := &recordingReminderPublisher{}
	svc := NewReminderService(store, pub)

	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	n, err := svc.PublishDue(ctx, now)
	if err != nil {
		t.Fatalf("PublishDue: %v", err)
	}
	if n != 1 || len(pub.notices) != 1 {
		t.Fatalf("published = %d, notices = %d", n, len(pub.notices))
	}

	notice := pub.notices[0]
	if notice.BatchID != id || notice.DayOfCycle != 9 || notice.Priority != "critical" {
		t.Errorf("notice = %+v", notice)
	}
}

func TestPublishDueQuietDay(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	b := validBatch()
	b.StartDate = core.NewDate(2026, 1, 1)
	store.CreateBatch(ctx, b)

	pub := &recordingReminderPublisher{}
	svc := NewReminderService(store, pub)

	// Day 25 has no scheduled tasks.
	now := time.Date(2026, 1, 26, 8, 0, 0, 0, time.UTC)
	n, err := svc.PublishDue(ctx, now)
	if err != nil {
		t.Fatalf("PublishDue: %v", err)
	}
	if n != 0 || len(pub.notices) != 0 {
		t.Fatalf("published = %d on a quiet day", n)
	}
}
