package models

// TriggerType is the category of condition governing how a reminder's
// urgency status is derived. It is carried end-to-end as an explicit
// tag; status logic never re-derives it from display text.
type TriggerType string

const (
	TriggerOdometer    TriggerType = "odometer"
	TriggerInterval    TriggerType = "interval"
	TriggerDate        TriggerType = "date"
	TriggerEngineHours TriggerType = "engine_hours"
)

// IsValidTriggerType checks if a trigger type is valid.
func IsValidTriggerType(t TriggerType) bool {
	switch t {
	case TriggerOdometer, TriggerInterval, TriggerDate, TriggerEngineHours:
		return true
	default:
		return false
	}
}

// ReminderStatus is the derived urgency of a reminder.
type ReminderStatus string

const (
	StatusScheduled ReminderStatus = "scheduled"
	StatusDueSoon   ReminderStatus = "due-soon"
	StatusOverdue   ReminderStatus = "overdue"
)

// Priority orders simultaneously-due reminders. It never feeds into
// status computation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValidPriority checks if a priority is valid.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Reminder is a maintenance rule tied to one or more vehicles with a
// trigger condition and a derived urgency status.
//
// Current, Target and Warn are miles for odometer/interval triggers and
// hours for engine-hour triggers. Warn is a distance-to-trigger
// threshold, not an absolute value. Date triggers use the Date field
// (YYYY-MM-DD) instead of Current/Target, and Warn becomes a day count.
type Reminder struct {
	ID          string         `json:"id"`
	Vehicles    []string       `json:"vehicles"`
	Task        string         `json:"task"`
	TriggerType TriggerType    `json:"trigger_type"`
	Current     float64        `json:"current"`
	Target      float64        `json:"target"`
	Warn        float64        `json:"warn"`
	Date        string         `json:"date,omitempty"`
	Priority    Priority       `json:"priority"`
	Status      ReminderStatus `json:"status"`
	Notified    bool           `json:"notified"`
	Assignee    string         `json:"assignee,omitempty"`
	Notes       string         `json:"notes,omitempty"`
}

// Clone returns an independent copy of the reminder.
func (r Reminder) Clone() Reminder {
	out := r
	out.Vehicles = append([]string(nil), r.Vehicles...)
	return out
}

// HasVehicle reports whether the reminder tracks the given vehicle.
func (r *Reminder) HasVehicle(vehicleID string) bool {
	for _, v := range r.Vehicles {
		if v == vehicleID {
			return true
		}
	}
	return false
}

// ReminderPatch is a partial update for a reminder. Nil fields are left
// untouched; the store merges set fields with a shallow overwrite and
// never recomputes status on its own for plain field updates.
type ReminderPatch struct {
	Vehicles    []string        `json:"vehicles,omitempty"`
	Task        *string         `json:"task,omitempty"`
	TriggerType *TriggerType    `json:"trigger_type,omitempty"`
	Current     *float64        `json:"current,omitempty"`
	Target      *float64        `json:"target,omitempty"`
	Warn        *float64        `json:"warn,omitempty"`
	Date        *string         `json:"date,omitempty"`
	Priority    *Priority       `json:"priority,omitempty"`
	Status      *ReminderStatus `json:"status,omitempty"`
	Notified    *bool           `json:"notified,omitempty"`
	Assignee    *string         `json:"assignee,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}

// Apply merges the set fields of the patch onto the reminder.
func (p *ReminderPatch) Apply(r *Reminder) {
	if p.Vehicles != nil {
		r.Vehicles = append([]string(nil), p.Vehicles...)
	}
	if p.Task != nil {
		r.Task = *p.Task
	}
	if p.TriggerType != nil {
		r.TriggerType = *p.TriggerType
	}
	if p.Current != nil {
		r.Current = *p.Current
	}
	if p.Target != nil {
		r.Target = *p.Target
	}
	if p.Warn != nil {
		r.Warn = *p.Warn
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Notified != nil {
		r.Notified = *p.Notified
	}
	if p.Assignee != nil {
		r.Assignee = *p.Assignee
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
}
