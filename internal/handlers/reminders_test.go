package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-maintenance/internal/catalog"
	"github.com/fleetops/fleet-maintenance/internal/convert"
	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/notify"
	"github.com/fleetops/fleet-maintenance/internal/store"
)

func newTestMux(t *testing.T) (*http.ServeMux, *store.Store, *recordingSink) {
	t.Helper()
	s := store.New(nil)
	sink := &recordingSink{}
	pipeline := notify.NewPipeline(s, sink)
	converter := convert.NewConverter(s, catalog.NewStatic(catalog.SeedVehicles()))

	reminderHandler := NewReminderHandler(s, converter)
	workOrderHandler := NewWorkOrderHandler(s)
	telemetryHandler := NewTelemetryHandler(s, pipeline)
	statsHandler := NewStatsHandler(s)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reminders", reminderHandler.List)
	mux.HandleFunc("POST /api/reminders", reminderHandler.Create)
	mux.HandleFunc("PUT /api/reminders/{id}", reminderHandler.Update)
	mux.HandleFunc("DELETE /api/reminders/{id}", reminderHandler.Delete)
	mux.HandleFunc("POST /api/reminders/{id}/convert", reminderHandler.Convert)
	mux.HandleFunc("GET /api/workorders", workOrderHandler.List)
	mux.HandleFunc("POST /api/workorders", workOrderHandler.Create)
	mux.HandleFunc("PUT /api/workorders/{id}", workOrderHandler.Update)
	mux.HandleFunc("POST /api/telemetry", telemetryHandler.Push)
	mux.HandleFunc("GET /api/stats", statsHandler.Get)
	return mux, s, sink
}

type recordingSink struct {
	events []notify.Event
}

func (r *recordingSink) Notify(ev notify.Event) { r.events = append(r.events, ev) }

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestCreateReminder_ComputesInitialStatus(t *testing.T) {
	mux, _, _ := newTestMux(t)

	w := doJSON(t, mux, http.MethodPost, "/api/reminders", map[string]interface{}{
		"vehicles":     []string{"TRK-101"},
		"task":         "Oil change",
		"trigger_type": "odometer",
		"current":      84000,
		"target":       84000,
		"warn":         500,
		"priority":     "high",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var rem models.Reminder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rem))
	assert.Equal(t, models.StatusOverdue, rem.Status)
	assert.False(t, rem.Notified)
	assert.NotEmpty(t, rem.ID)
}

func TestCreateReminder_Validation(t *testing.T) {
	mux, _, _ := newTestMux(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"no vehicles", map[string]interface{}{
			"vehicles": []string{}, "task": "Oil change", "trigger_type": "odometer",
		}},
		{"empty task", map[string]interface{}{
			"vehicles": []string{"TRK-101"}, "task": "", "trigger_type": "odometer",
		}},
		{"bad trigger type", map[string]interface{}{
			"vehicles": []string{"TRK-101"}, "task": "Oil change", "trigger_type": "psychic",
		}},
		{"bad date", map[string]interface{}{
			"vehicles": []string{"TRK-101"}, "task": "Inspection", "trigger_type": "date", "date": "soonish",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, "/api/reminders", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateReminder_RecomputesStatusInline(t *testing.T) {
	mux, s, _ := newTestMux(t)
	rem := s.AddReminder(models.Reminder{
		Vehicles:    []string{"TRK-201"},
		Task:        "Oil change",
		TriggerType: models.TriggerOdometer,
		Current:     84200,
		Target:      84000,
		Warn:        500,
		Priority:    models.PriorityHigh,
		Status:      models.StatusOverdue,
		Notified:    true,
	})

	// Raising the target (new service baseline) leaves overdue and
	// clears the notified flag for the next episode.
	w := doJSON(t, mux, http.MethodPut, "/api/reminders/"+rem.ID, map[string]interface{}{
		"target": 94000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Reminder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusScheduled, updated.Status)
	assert.False(t, updated.Notified)
}

func TestUpdateReminder_NotFound(t *testing.T) {
	mux, _, _ := newTestMux(t)
	w := doJSON(t, mux, http.MethodPut, "/api/reminders/R999", map[string]interface{}{"task": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConvertReminder_CreatesWorkOrders(t *testing.T) {
	mux, s, _ := newTestMux(t)
	rem := s.AddReminder(models.Reminder{
		Vehicles:    []string{"TRK-101", "TRK-102"},
		Task:        "Oil change",
		TriggerType: models.TriggerOdometer,
		Current:     84200,
		Target:      84000,
		Warn:        500,
		Priority:    models.PriorityHigh,
		Status:      models.StatusOverdue,
	})

	w := doJSON(t, mux, http.MethodPost, "/api/reminders/"+rem.ID+"/convert", map[string]interface{}{
		"assignee": "M. Diaz",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created []models.WorkOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created, 2)
	assert.Equal(t, "Freightliner", created[0].Make)
	assert.Equal(t, rem.ID, created[0].ReminderID)
}

func TestTelemetryPush_RunsTriggerCheck(t *testing.T) {
	mux, s, sink := newTestMux(t)
	s.AddReminder(models.Reminder{
		Vehicles:    []string{"TRK-201"},
		Task:        "Oil change",
		TriggerType: models.TriggerOdometer,
		Current:     83000,
		Target:      84000,
		Warn:        500,
		Priority:    models.PriorityHigh,
		Status:      models.StatusScheduled,
	})

	w := doJSON(t, mux, http.MethodPost, "/api/telemetry", map[string]interface{}{
		"vehicle_id": "TRK-201",
		"odometer":   84100,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["updated"])
	assert.Len(t, sink.events, 1)
}

func TestTelemetryPush_RequiresVehicleID(t *testing.T) {
	mux, _, _ := newTestMux(t)
	w := doJSON(t, mux, http.MethodPost, "/api/telemetry", map[string]interface{}{"odometer": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkOrderUpdate_CompletionFlowsIntoStats(t *testing.T) {
	mux, s, _ := newTestMux(t)
	wo := s.AddWorkOrder(models.WorkOrder{Vehicle: "TRK-101", Task: "Brake check", Date: "2026-08-10"})

	w := doJSON(t, mux, http.MethodPut, "/api/workorders/"+wo.ID, map[string]interface{}{
		"status": "completed",
		"cost":   280,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.WorkOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.WorkOrderCompleted, updated.Status)
	require.NotNil(t, updated.Cost)
	assert.Equal(t, 280.0, *updated.Cost)
}

func TestWorkOrderCreate_Validation(t *testing.T) {
	mux, _, _ := newTestMux(t)
	w := doJSON(t, mux, http.MethodPost, "/api/workorders", map[string]interface{}{"task": "no vehicle"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
