// Package status derives reminder urgency from trigger conditions and
// telemetry values. Everything in here is pure; the store and the
// notification pipeline decide when to call it.
package status

import (
	"fmt"
	"sort"
	"time"

	"github.com/fleetops/fleet-maintenance/internal/models"
)

// Evaluate derives the status for a numeric trigger (odometer,
// interval, engine hours — the rule is identical, only the unit
// differs). Warn is the distance to the target at which the reminder
// becomes due-soon, not an absolute value.
//
// Date triggers are excluded from telemetry-driven recomputation by
// design; for them Evaluate reports ok=false and the caller keeps the
// stored status.
func Evaluate(trigger models.TriggerType, current, target, warn float64) (models.ReminderStatus, bool) {
	if trigger == models.TriggerDate {
		return "", false
	}
	switch {
	case current >= target:
		return models.StatusOverdue, true
	case target-current <= warn:
		return models.StatusDueSoon, true
	default:
		return models.StatusScheduled, true
	}
}

// EvaluateDate derives the status for a date trigger at creation or
// edit time. The date is YYYY-MM-DD and warnDays is the due-soon
// window. This is the only place date reminders get a status: the
// telemetry path never touches them.
func EvaluateDate(date string, warnDays float64, now time.Time) (models.ReminderStatus, error) {
	due, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysLeft := due.Sub(today).Hours() / 24
	switch {
	case daysLeft <= 0:
		return models.StatusOverdue, nil
	case daysLeft <= warnDays:
		return models.StatusDueSoon, nil
	default:
		return models.StatusScheduled, nil
	}
}

// Over returns the signed over/under delta against the target.
// Positive means the trigger has been passed.
func Over(current, target float64) float64 {
	return current - target
}

// Rank maps a priority to its tie-break order: high before medium
// before low. Unknown priorities sort last.
func Rank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	default:
		return 3
	}
}

// SortByPriority orders reminders by priority rank, keeping the
// existing order for equal priorities.
func SortByPriority(reminders []models.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return Rank(reminders[i].Priority) < Rank(reminders[j].Priority)
	})
}
