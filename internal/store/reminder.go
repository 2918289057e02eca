package store

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/status"
)

// AddReminder assigns the next reminder id, prepends the record so the
// collection stays most-recent-first, persists, and returns the stored
// copy.
func (s *Store) AddReminder(data models.Reminder) models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := data.Clone()
	rec.ID = fmt.Sprintf("R%03d", s.reminderSeq)
	s.reminderSeq++

	s.reminders[rec.ID] = &rec
	s.reminderOrder = append([]string{rec.ID}, s.reminderOrder...)
	s.persistLocked()

	log.WithFields(log.Fields{"reminder_id": rec.ID, "task": rec.Task}).Info("Reminder created")
	return rec.Clone()
}

// UpdateReminder merges the patch onto an existing reminder. Unknown
// ids are a soft miss: ok is false and nothing is created. Plain field
// updates never recompute status; callers that change trigger fields
// set the status themselves.
func (s *Store) UpdateReminder(id string, patch models.ReminderPatch) (models.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.reminders[id]
	if !ok {
		return models.Reminder{}, false
	}
	patch.Apply(rec)
	s.persistLocked()
	return rec.Clone(), true
}

// DeleteReminder removes a reminder if present. Deletion is terminal
// and has no cascading effect on work orders.
func (s *Store) DeleteReminder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[id]; !ok {
		return false
	}
	delete(s.reminders, id)
	for i, rid := range s.reminderOrder {
		if rid == id {
			s.reminderOrder = append(s.reminderOrder[:i], s.reminderOrder[i+1:]...)
			break
		}
	}
	s.persistLocked()
	return true
}

// Reminder returns a copy of one reminder.
func (s *Store) Reminder(id string) (models.Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.reminders[id]
	if !ok {
		return models.Reminder{}, false
	}
	return rec.Clone(), true
}

// Reminders returns a snapshot of the collection, most recent first.
func (s *Store) Reminders() []models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Reminder, 0, len(s.reminderOrder))
	for _, id := range s.reminderOrder {
		out = append(out, s.reminders[id].Clone())
	}
	return out
}

// MarkNotified flags a reminder as notified for its current overdue
// episode. The flag stays set until an external edit clears it.
func (s *Store) MarkNotified(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.reminders[id]
	if !ok {
		return false
	}
	rec.Notified = true
	s.persistLocked()
	return true
}

// UpdateOdometer applies a telemetry reading: every reminder tracking
// the vehicle, except date triggers, gets the new current value and a
// freshly evaluated status. This is the only path that recomputes
// status automatically. The whole application is one atomic step under
// the store lock. Returns whether any reminder changed.
func (s *Store) UpdateOdometer(vehicleID string, odometer float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, id := range s.reminderOrder {
		rec := s.reminders[id]
		if rec.TriggerType == models.TriggerDate || !rec.HasVehicle(vehicleID) {
			continue
		}
		next, ok := status.Evaluate(rec.TriggerType, odometer, rec.Target, rec.Warn)
		if !ok {
			continue
		}
		if rec.Current != odometer || rec.Status != next {
			changed = true
		}
		rec.Current = odometer
		rec.Status = next
	}
	if changed {
		s.persistLocked()
	}
	return changed
}

// UniqueVehicles returns every vehicle referenced by any reminder, in
// first-seen order. Multi-vehicle reminders contribute all of their
// vehicles, so each one is tracked for telemetry.
func (s *Store) UniqueVehicles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, id := range s.reminderOrder {
		for _, v := range s.reminders[id].Vehicles {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
