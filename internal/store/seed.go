package store

import "github.com/fleetops/fleet-maintenance/internal/models"

// Seed data for first run, when the durability backend has no state
// yet. The counters start past the seeded ids so restarts never reissue
// one.
const (
	seedReminderSeq  = 4
	seedWorkOrderSeq = 2
)

func seedReminders() []models.Reminder {
	return []models.Reminder{
		{
			ID:          "R003",
			Vehicles:    []string{"TRK-103"},
			Task:        "Annual DOT inspection",
			TriggerType: models.TriggerDate,
			Date:        "2026-11-15",
			Warn:        30,
			Priority:    models.PriorityMedium,
			Status:      models.StatusScheduled,
		},
		{
			ID:          "R002",
			Vehicles:    []string{"TRK-102"},
			Task:        "Tire rotation",
			TriggerType: models.TriggerInterval,
			Current:     61200,
			Target:      66000,
			Warn:        1000,
			Priority:    models.PriorityLow,
			Status:      models.StatusScheduled,
		},
		{
			ID:          "R001",
			Vehicles:    []string{"TRK-101"},
			Task:        "Oil change",
			TriggerType: models.TriggerOdometer,
			Current:     83400,
			Target:      84000,
			Warn:        500,
			Priority:    models.PriorityHigh,
			Status:      models.StatusScheduled,
		},
	}
}

func seedWorkOrders() []models.WorkOrder {
	cost := 145.0
	return []models.WorkOrder{
		{
			ID:      "WO-1",
			Vehicle: "TRK-101",
			Make:    "Freightliner",
			Task:    "Brake pad replacement",
			Odo:     "82100",
			Cost:    &cost,
			Date:    "2026-07-18",
			Status:  models.WorkOrderCompleted,
		},
		{
			ID:      "WO-2",
			Vehicle: "TRK-102",
			Make:    "Volvo",
			Task:    "Coolant flush",
			Date:    "2026-08-21",
			Status:  models.WorkOrderOpen,
		},
	}
}
