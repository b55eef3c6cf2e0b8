package core

import (
	"testing"
	"time"
)

func TestBatchProgress(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		start   Date
		days    int
		week    int
		pct     int
		done    bool
	}{
		{"started today", NewDate(2026, 3, 15), 0, 1, 0, false},
		{"one day in", NewDate(2026, 3, 14), 1, 1, 2, false},
		{"first week boundary", NewDate(2026, 3, 8), 7, 1, 17, false},
		{"second week", NewDate(2026, 3, 7), 8, 2, 19, false},
		{"half cycle", NewDate(2026, 2, 22), 21, 3, 50, false},
		{"cycle complete", NewDate(2026, 2, 1), 42, 6, 100, true},
		{"past cycle stays capped", NewDate(2026, 1, 1), 73, 6, 100, true},
		{"future start clamps to zero", NewDate(2026, 4, 1), 0, 1, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := BatchProgress(tc.start, now)
			if p.DaysPassed != tc.days {
				t.Errorf("DaysPassed = %d, want %d", p.DaysPassed, tc.days)
			}
			if p.Week != tc.week {
				t.Errorf("Week = %d, want %d", p.Week, tc.week)
			}
			if p.Percentage != tc.pct {
				t.Errorf("Percentage = %d, want %d", p.Percentage, tc.pct)
			}
			if p.Completed != tc.done {
				t.Errorf("Completed = %v, want %v", p.Completed, tc.done)
			}
		})
	}
}

func TestBatchProgressIgnoresTimeOfDay(t *testing.T) {
	start := NewDate(2026, 3, 1)
	early := time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC)
	late := time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)

	if a, b := BatchProgress(start, early), BatchProgress(start, late); a != b {
		t.Fatalf("progress differs by time of day: %+v vs %+v", a, b)
	}
}

func TestEndDate(t *testing.T) {
	b := Batch{StartDate: NewDate(2026, 1, 1)}
	if got := b.EndDate().String(); got != "2026-02-12" {
		t.Fatalf("EndDate = %s, want 2026-02-12", got)
	}
}

func TestCycleElapsed(t *testing.T) {
	b := Batch{StartDate: NewDate(2026, 1, 1)}
	if b.CycleElapsed(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day 41 should not be elapsed")
	}
	if !b.CycleElapsed(time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day 42 should be elapsed")
	}
}
