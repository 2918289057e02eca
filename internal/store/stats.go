package store

import (
	"strings"
	"time"

	"github.com/fleetops/fleet-maintenance/internal/models"
)

// Stats aggregates the store for dashboard display.
type Stats struct {
	RemindersByStatus  map[models.ReminderStatus]int  `json:"reminders_by_status"`
	WorkOrdersByStatus map[models.WorkOrderStatus]int `json:"workorders_by_status"`
	// CompletedThisMonth and SpendThisMonth bucket completed work
	// orders by their Date field (prefix match on the current
	// year-month), not by CompletionDate.
	CompletedThisMonth int     `json:"completed_this_month"`
	SpendThisMonth     float64 `json:"spend_this_month"`
}

// Stats aggregates against the current wall clock.
func (s *Store) Stats() Stats {
	return s.StatsAt(time.Now())
}

// StatsAt aggregates with an explicit reference time for the month
// bucket.
func (s *Store) StatsAt(now time.Time) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		RemindersByStatus:  make(map[models.ReminderStatus]int),
		WorkOrdersByStatus: make(map[models.WorkOrderStatus]int),
	}
	for _, id := range s.reminderOrder {
		st.RemindersByStatus[s.reminders[id].Status]++
	}

	month := now.Format("2006-01")
	for _, id := range s.workOrderOrder {
		wo := s.workOrders[id]
		st.WorkOrdersByStatus[wo.Status]++
		if wo.Status != models.WorkOrderCompleted || !strings.HasPrefix(wo.Date, month) {
			continue
		}
		st.CompletedThisMonth++
		if wo.Cost != nil {
			st.SpendThisMonth += *wo.Cost
		}
	}
	return st
}
