package core

import "time"

const (
	PriorityCritical ReminderPriority = "critical"
	PriorityHigh     ReminderPriority = "high"
	PriorityMedium   ReminderPriority = "medium"
)

type (
	ReminderPriority string

	// Reminder is an advisory care notice for one batch. Delivery is an
	// external concern; the core only computes what is due.
	Reminder struct {
		Title    string
		Message  string
		Batch    string
		Priority ReminderPriority
		Icon     string
	}

	reminderRule struct {
		day      int // days since batch start that triggers the notice
		title    string
		message  string
		priority ReminderPriority
		icon     string
	}
)

// The broiler care program: feed changes announced two days ahead,
// vaccinations one day ahead.
var reminderRules = []reminderRule{
	{9, "Vaccination Due Tomorrow", "MA5clone30 spray vaccination (Days 10-12)", PriorityCritical, "💉"},
	{10, "Feed Change Due Soon", "Switch to Grower feed in 2 days (Day 12)", PriorityHigh, "🌾"},
	{12, "Vaccination Due Tomorrow", "IBD vaccination (Days 13-14)", PriorityCritical, "💉"},
	{18, "Vaccination Due Tomorrow", "MA5clone30 spray vaccination (Days 19-21)", PriorityCritical, "💉"},
	{23, "Vaccination Program Due Tomorrow", "Start finisher vaccination program (Days 24-42)", PriorityMedium, "💉"},
	{24, "Feed Change Due Soon", "Switch to Finisher feed in 2 days (Day 26)", PriorityHigh, "🌾"},
}

// UpcomingReminders recomputes the due notices for a set of batches at the
// given instant. Only active batches are considered; the result is finite,
// stateless, and safe to recompute on every call.
func UpcomingReminders(batches []Batch, now time.Time) []Reminder {
	var out []Reminder
	for _, b := range batches {
		if b.Status != StatusActive {
			continue
		}
		days := daysBetween(b.StartDate, now)
		for _, r := range reminderRules {
			if days != r.day {
				continue
			}
			out = append(out, Reminder{
				Title:    r.title,
				Message:  r.message,
				Batch:    b.Name,
				Priority: r.priority,
				Icon:     r.icon,
			})
		}
	}
	return out
}
