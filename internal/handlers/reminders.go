package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fleetops/fleet-maintenance/internal/convert"
	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/status"
	"github.com/fleetops/fleet-maintenance/internal/store"
)

// ReminderHandler serves the reminder CRUD and conversion endpoints.
type ReminderHandler struct {
	store     *store.Store
	converter *convert.Converter
}

// NewReminderHandler creates a new reminder handler.
func NewReminderHandler(s *store.Store, c *convert.Converter) *ReminderHandler {
	return &ReminderHandler{store: s, converter: c}
}

// List returns all reminders, most recent first.
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Reminders())
}

// Create validates and stores a new reminder. The initial status is
// computed here, before the record reaches the store: the store itself
// only recomputes on telemetry updates.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rem models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&rem); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if len(rem.Vehicles) == 0 {
		http.Error(w, "At least one vehicle is required", http.StatusBadRequest)
		return
	}
	if rem.Task == "" {
		http.Error(w, "Task is required", http.StatusBadRequest)
		return
	}
	if !models.IsValidTriggerType(rem.TriggerType) {
		http.Error(w, "Invalid trigger type", http.StatusBadRequest)
		return
	}
	if rem.Priority == "" {
		rem.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(rem.Priority) {
		http.Error(w, "Invalid priority", http.StatusBadRequest)
		return
	}

	st, err := initialStatus(&rem)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rem.Status = st
	rem.Notified = false

	writeJSON(w, http.StatusCreated, h.store.AddReminder(rem))
}

// Update merges a partial edit onto a reminder. When the edit touches
// trigger fields the status is recomputed inline here; when the new
// status is no longer overdue the notified flag is cleared so a later
// overdue episode can fire again.
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch models.ReminderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if patch.Vehicles != nil && len(patch.Vehicles) == 0 {
		http.Error(w, "At least one vehicle is required", http.StatusBadRequest)
		return
	}
	if patch.Task != nil && *patch.Task == "" {
		http.Error(w, "Task is required", http.StatusBadRequest)
		return
	}
	if patch.TriggerType != nil && !models.IsValidTriggerType(*patch.TriggerType) {
		http.Error(w, "Invalid trigger type", http.StatusBadRequest)
		return
	}
	if patch.Priority != nil && !models.IsValidPriority(*patch.Priority) {
		http.Error(w, "Invalid priority", http.StatusBadRequest)
		return
	}

	existing, ok := h.store.Reminder(id)
	if !ok {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	if touchesTrigger(&patch) && patch.Status == nil {
		merged := existing.Clone()
		patch.Apply(&merged)
		st, err := initialStatus(&merged)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		patch.Status = &st
		if st != models.StatusOverdue && patch.Notified == nil {
			cleared := false
			patch.Notified = &cleared
		}
	}

	updated, ok := h.store.UpdateReminder(id, patch)
	if !ok {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a reminder. Work orders created from it are untouched.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeleteReminder(r.PathValue("id")) {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Convert accepts a reminder and expands it into one open work order
// per vehicle.
func (h *ReminderHandler) Convert(w http.ResponseWriter, r *http.Request) {
	rem, ok := h.store.Reminder(r.PathValue("id"))
	if !ok {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	var opts convert.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, h.converter.Accept(r.Context(), rem, opts))
}

// initialStatus computes the creation/edit-time status for a reminder.
// Numeric triggers use the evaluator; date triggers get their one-time
// calendar evaluation here, since the telemetry path never touches
// them.
func initialStatus(rem *models.Reminder) (models.ReminderStatus, error) {
	if rem.TriggerType == models.TriggerDate {
		return status.EvaluateDate(rem.Date, rem.Warn, time.Now())
	}
	st, _ := status.Evaluate(rem.TriggerType, rem.Current, rem.Target, rem.Warn)
	return st, nil
}

func touchesTrigger(p *models.ReminderPatch) bool {
	return p.TriggerType != nil || p.Current != nil || p.Target != nil || p.Warn != nil || p.Date != nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
