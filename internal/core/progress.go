package core

import (
	"math"
	"time"
)

// A broiler cycle runs a fixed 42 days, reported in at most 6 weeks.
const (
	CycleDays = 42
	MaxWeeks  = 6
)

// Progress is the elapsed-time lifecycle state of a batch.
type Progress struct {
	DaysPassed int
	Week       int
	Percentage int
	Completed  bool
}

// BatchProgress computes the lifecycle state of a batch started at start,
// evaluated at now. Day arithmetic is calendar-based (UTC midnights), so a
// DST shift cannot produce an off-by-one. A future start date reports day
// zero rather than a negative count.
func BatchProgress(start Date, now time.Time) Progress {
	days := daysBetween(start, now)
	if days < 0 {
		days = 0
	}

	week := (days + 6) / 7 // ceil(days/7)
	if week < 1 {
		week = 1
	}
	if week > MaxWeeks {
		week = MaxWeeks
	}

	frac := math.Min(float64(days)/CycleDays, 1)

	return Progress{
		DaysPassed: days,
		Week:       week,
		Percentage: int(math.Round(frac * 100)),
		Completed:  days >= CycleDays,
	}
}

// EndDate is the nominal completion date, start plus the fixed cycle length.
func (b Batch) EndDate() Date {
	return b.StartDate.AddDays(CycleDays)
}

// CycleElapsed reports whether the batch has reached the end of its cycle.
func (b Batch) CycleElapsed(now time.Time) bool {
	return BatchProgress(b.StartDate, now).Completed
}

// daysBetween counts whole calendar days from start to now, ignoring
// time-of-day and timezone of now.
func daysBetween(start Date, now time.Time) int {
	sy, sm, sd := start.Date()
	ny, nm, nd := now.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	n := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(n.Sub(s).Hours() / 24)
}
