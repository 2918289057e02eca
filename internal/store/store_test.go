package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/persist"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	backend, err := persist.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return New(backend)
}

func newReminder(vehicles ...string) models.Reminder {
	return models.Reminder{
		Vehicles:    vehicles,
		Task:        "Oil change",
		TriggerType: models.TriggerOdometer,
		Current:     83400,
		Target:      84000,
		Warn:        500,
		Priority:    models.PriorityHigh,
		Status:      models.StatusScheduled,
	}
}

func TestAddReminder_AssignsIDAndPrepends(t *testing.T) {
	s := newTestStore(t)

	first := s.AddReminder(newReminder("TRK-201"))
	second := s.AddReminder(newReminder("TRK-202"))

	assert.Equal(t, "R004", first.ID, "counter continues past seed data")
	assert.Equal(t, "R005", second.ID)

	reminders := s.Reminders()
	assert.Equal(t, second.ID, reminders[0].ID, "most recent first")
	assert.Equal(t, first.ID, reminders[1].ID)
}

func TestReminderIDsNeverReused(t *testing.T) {
	s := newTestStore(t)

	created := s.AddReminder(newReminder("TRK-201"))
	require.True(t, s.DeleteReminder(created.ID))

	next := s.AddReminder(newReminder("TRK-202"))
	assert.NotEqual(t, created.ID, next.ID)
	assert.Greater(t, next.ID, created.ID)
}

func TestUpdateReminder_MergesPartial(t *testing.T) {
	s := newTestStore(t)
	created := s.AddReminder(newReminder("TRK-201"))

	task := "Transmission service"
	updated, ok := s.UpdateReminder(created.ID, models.ReminderPatch{Task: &task})
	require.True(t, ok)

	assert.Equal(t, "Transmission service", updated.Task)
	assert.Equal(t, created.Vehicles, updated.Vehicles, "untouched fields survive")
	assert.Equal(t, created.Target, updated.Target)
}

func TestUpdateReminder_UnknownIDIsSoftMiss(t *testing.T) {
	s := newTestStore(t)

	task := "anything"
	_, ok := s.UpdateReminder("R999", models.ReminderPatch{Task: &task})
	assert.False(t, ok)
	assert.NotContains(t, idsOf(s.Reminders()), "R999", "never creates on miss")
}

func TestDeleteReminder_NoCascadeToWorkOrders(t *testing.T) {
	s := newTestStore(t)
	rem := s.AddReminder(newReminder("TRK-201"))
	wo := s.AddWorkOrder(models.WorkOrder{Vehicle: "TRK-201", Task: "Oil change", ReminderID: rem.ID})

	require.True(t, s.DeleteReminder(rem.ID))
	assert.False(t, s.DeleteReminder(rem.ID), "second delete misses")

	kept, ok := s.WorkOrder(wo.ID)
	require.True(t, ok)
	assert.Equal(t, rem.ID, kept.ReminderID, "back-reference stays intact")
}

func TestReminders_ReturnsSnapshots(t *testing.T) {
	s := newTestStore(t)
	created := s.AddReminder(newReminder("TRK-201"))

	snapshot := s.Reminders()
	snapshot[0].Task = "mutated"
	snapshot[0].Vehicles[0] = "mutated"

	fresh, ok := s.Reminder(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Oil change", fresh.Task)
	assert.Equal(t, "TRK-201", fresh.Vehicles[0])
}

func TestUpdateOdometer_RecomputesStatus(t *testing.T) {
	s := newTestStore(t)
	rem := s.AddReminder(newReminder("TRK-201"))

	changed := s.UpdateOdometer("TRK-201", 84000)
	assert.True(t, changed)
	got, _ := s.Reminder(rem.ID)
	assert.Equal(t, models.StatusOverdue, got.Status)
	assert.Equal(t, 84000.0, got.Current)

	// Rolling the odometer back (corrected reading) re-evaluates to
	// due-soon; notified is untouched by the evaluator path.
	require.True(t, s.MarkNotified(rem.ID))
	changed = s.UpdateOdometer("TRK-201", 83900)
	assert.True(t, changed)
	got, _ = s.Reminder(rem.ID)
	assert.Equal(t, models.StatusDueSoon, got.Status)
	assert.True(t, got.Notified)
}

func TestUpdateOdometer_Idempotent(t *testing.T) {
	s := newTestStore(t)
	rem := s.AddReminder(newReminder("TRK-201"))

	assert.True(t, s.UpdateOdometer("TRK-201", 83800))
	assert.False(t, s.UpdateOdometer("TRK-201", 83800), "same reading changes nothing")

	got, _ := s.Reminder(rem.ID)
	assert.Equal(t, models.StatusDueSoon, got.Status)
	assert.False(t, got.Notified)
}

func TestUpdateOdometer_SkipsDateTriggersAndOtherVehicles(t *testing.T) {
	s := newTestStore(t)
	dateRem := s.AddReminder(models.Reminder{
		Vehicles:    []string{"TRK-201"},
		Task:        "Registration renewal",
		TriggerType: models.TriggerDate,
		Date:        "2026-12-01",
		Warn:        14,
		Priority:    models.PriorityMedium,
		Status:      models.StatusScheduled,
	})
	otherRem := s.AddReminder(newReminder("TRK-202"))

	s.UpdateOdometer("TRK-201", 999999)

	got, _ := s.Reminder(dateRem.ID)
	assert.Equal(t, models.StatusScheduled, got.Status, "date triggers excluded")
	assert.Zero(t, got.Current)

	got, _ = s.Reminder(otherRem.ID)
	assert.Equal(t, 83400.0, got.Current, "unrelated vehicle untouched")
}

func TestUpdateOdometer_MultiVehicleReminder(t *testing.T) {
	s := newTestStore(t)
	rem := s.AddReminder(newReminder("TRK-201", "TRK-202"))

	assert.True(t, s.UpdateOdometer("TRK-202", 84100))

	got, _ := s.Reminder(rem.ID)
	assert.Equal(t, models.StatusOverdue, got.Status, "any tracked vehicle updates the reminder")
}

func TestUniqueVehicles_FlattensAllVehicles(t *testing.T) {
	s := newTestStore(t)
	s.AddReminder(newReminder("TRK-201", "TRK-202"))
	s.AddReminder(newReminder("TRK-202", "TRK-203"))

	vehicles := s.UniqueVehicles()
	for _, want := range []string{"TRK-101", "TRK-102", "TRK-103", "TRK-201", "TRK-202", "TRK-203"} {
		assert.Contains(t, vehicles, want)
	}
	assert.Len(t, vehicles, 6, "no duplicates")
}

func TestAddWorkOrder_IDFormatAndDefaults(t *testing.T) {
	s := newTestStore(t)

	wo := s.AddWorkOrder(models.WorkOrder{Vehicle: "TRK-201", Task: "Brake check"})
	assert.Equal(t, "WO-3", wo.ID, "counter continues past seed data")
	assert.Equal(t, models.WorkOrderOpen, wo.Status)

	require.True(t, s.DeleteWorkOrder(wo.ID))
	next := s.AddWorkOrder(models.WorkOrder{Vehicle: "TRK-202", Task: "Brake check"})
	assert.Equal(t, "WO-4", next.ID, "ids never reused after deletion")
}

func TestUpdateWorkOrder_UnknownIDIsSoftMiss(t *testing.T) {
	s := newTestStore(t)

	st := models.WorkOrderCompleted
	_, ok := s.UpdateWorkOrder("WO-999", models.WorkOrderPatch{Status: &st})
	assert.False(t, ok)
}

func TestStatsAt_MonthBucketsByDatePrefix(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cost := 280.0
	thisMonth := s.AddWorkOrder(models.WorkOrder{Vehicle: "TRK-201", Task: "Oil change", Date: "2026-08-10"})
	st := models.WorkOrderCompleted
	_, ok := s.UpdateWorkOrder(thisMonth.ID, models.WorkOrderPatch{Status: &st, Cost: &cost})
	require.True(t, ok)

	// Completed now but dated last month: must not count.
	priorCost := 999.0
	lastMonth := s.AddWorkOrder(models.WorkOrder{Vehicle: "TRK-202", Task: "Tires", Date: "2026-07-02"})
	_, ok = s.UpdateWorkOrder(lastMonth.ID, models.WorkOrderPatch{Status: &st, Cost: &priorCost})
	require.True(t, ok)

	stats := s.StatsAt(now)
	assert.Equal(t, 1, stats.CompletedThisMonth)
	assert.Equal(t, 280.0, stats.SpendThisMonth)
	assert.Equal(t, 3, stats.WorkOrdersByStatus[models.WorkOrderCompleted], "seed WO-1 is completed too")
}

func TestStats_CountsRemindersByStatus(t *testing.T) {
	s := newTestStore(t)
	s.UpdateOdometer("TRK-101", 84000) // seed oil change goes overdue

	stats := s.Stats()
	assert.Equal(t, 1, stats.RemindersByStatus[models.StatusOverdue])
	assert.Equal(t, 2, stats.RemindersByStatus[models.StatusScheduled])
}

func TestNew_PersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	backend, err := persist.NewFileBackend(dir)
	require.NoError(t, err)

	s := New(backend)
	created := s.AddReminder(newReminder("TRK-301"))
	s.UpdateOdometer("TRK-301", 84200)

	reopened := New(backend)
	got, ok := reopened.Reminder(created.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusOverdue, got.Status)
	assert.Equal(t, 84200.0, got.Current)

	next := reopened.AddReminder(newReminder("TRK-302"))
	assert.Greater(t, next.ID, created.ID, "counter survives restart")
}

func TestNew_CorruptStateFallsBackToSeed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reminders.json"), []byte("{not json"), 0o644))

	backend, err := persist.NewFileBackend(dir)
	require.NoError(t, err)

	s := New(backend)
	assert.Len(t, s.Reminders(), 3, "seed reminders")
}

type failingBackend struct{}

func (failingBackend) Save(context.Context, persist.Slot, []byte) error {
	return errors.New("backend down")
}

func (failingBackend) Load(context.Context, persist.Slot) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}

func TestStore_KeepsWorkingWhenBackendFails(t *testing.T) {
	s := New(failingBackend{})

	created := s.AddReminder(newReminder("TRK-201"))
	got, ok := s.Reminder(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.ID, got.ID, "store degrades to in-memory, never fails")
}

func idsOf(reminders []models.Reminder) []string {
	out := make([]string, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, r.ID)
	}
	return out
}
