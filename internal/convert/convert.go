// Package convert expands accepted reminders into work orders.
package convert

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/catalog"
	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/store"
)

// Options carries the user-supplied fields for the created work orders.
type Options struct {
	Assignee string `json:"assignee"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
}

// Converter turns reminders into per-vehicle work orders.
type Converter struct {
	store   *store.Store
	catalog catalog.Catalog
}

// NewConverter wires the converter to a store and a vehicle catalog.
func NewConverter(s *store.Store, c catalog.Catalog) *Converter {
	return &Converter{store: s, catalog: c}
}

// Accept creates one open work order per vehicle on the reminder, in
// vehicle order. Each order carries the reminder id as provenance, the
// reminder's current value as the odometer stamp, and the catalog make
// when the vehicle resolves. Empty notes fall back to a provenance
// note.
//
// Creation is not transactional across vehicles: orders persist one at
// a time, so a failure mid-way leaves the earlier ones in place. That
// at-least-partial-success semantics is deliberate — a half-converted
// reminder is recoverable by hand, a rolled-back batch is silent loss.
func (c *Converter) Accept(ctx context.Context, reminder models.Reminder, opts Options) []models.WorkOrder {
	date := opts.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	notes := opts.Notes
	if notes == "" {
		notes = fmt.Sprintf("Auto-created from reminder %s", reminder.ID)
	}

	created := make([]models.WorkOrder, 0, len(reminder.Vehicles))
	for _, vehicleID := range reminder.Vehicles {
		vehicleMake := ""
		if v, ok := c.catalog.Lookup(ctx, vehicleID); ok {
			vehicleMake = v.Make
		}
		wo := c.store.AddWorkOrder(models.WorkOrder{
			Vehicle:    vehicleID,
			Make:       vehicleMake,
			Task:       reminder.Task,
			Assignee:   opts.Assignee,
			Odo:        strconv.FormatFloat(reminder.Current, 'f', -1, 64),
			Date:       date,
			Notes:      notes,
			Status:     models.WorkOrderOpen,
			ReminderID: reminder.ID,
		})
		created = append(created, wo)
	}

	log.WithFields(log.Fields{
		"reminder_id": reminder.ID,
		"workorders":  len(created),
	}).Info("Reminder converted to work orders")
	return created
}
