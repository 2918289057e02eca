package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/notify"
	"github.com/fleetops/fleet-maintenance/internal/store"
)

// TelemetryHandler accepts pushed odometer readings, as an alternative
// to the MQTT polling path.
type TelemetryHandler struct {
	store    *store.Store
	pipeline *notify.Pipeline
}

// NewTelemetryHandler creates a new telemetry handler.
func NewTelemetryHandler(s *store.Store, p *notify.Pipeline) *TelemetryHandler {
	return &TelemetryHandler{store: s, pipeline: p}
}

// Push applies one odometer reading and runs the notification check.
// The check runs even when the reading changed nothing, so an existing
// overdue-but-unnotified reminder is still caught.
func (h *TelemetryHandler) Push(w http.ResponseWriter, r *http.Request) {
	var reading models.OdometerReading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if reading.VehicleID == "" {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}

	updated := h.store.UpdateOdometer(reading.VehicleID, reading.Odometer)
	h.pipeline.CheckTriggered()

	log.WithFields(log.Fields{
		"vehicle_id": reading.VehicleID,
		"odometer":   reading.Odometer,
		"updated":    updated,
	}).Debug("Telemetry reading applied")

	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}
