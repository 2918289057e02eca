package models

// WorkOrderStatus is the lifecycle state of a work order. The flow is
// forward-only in normal use; the store does not forbid moving a
// completed order back.
type WorkOrderStatus string

const (
	WorkOrderOpen       WorkOrderStatus = "open"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderCompleted  WorkOrderStatus = "completed"
)

// IsValidWorkOrderStatus checks if a work order status is valid.
func IsValidWorkOrderStatus(s WorkOrderStatus) bool {
	switch s {
	case WorkOrderOpen, WorkOrderInProgress, WorkOrderCompleted:
		return true
	default:
		return false
	}
}

// WorkOrder is a record of maintenance work performed or scheduled,
// optionally traceable to an originating reminder. ReminderID is a
// provenance back-reference only: deleting the source reminder leaves
// the work order intact.
type WorkOrder struct {
	ID             string          `json:"id"`
	Vehicle        string          `json:"vehicle"`
	Make           string          `json:"make,omitempty"`
	Task           string          `json:"task"`
	Assignee       string          `json:"assignee,omitempty"`
	Odo            string          `json:"odo,omitempty"`
	Cost           *float64        `json:"cost,omitempty"`
	Date           string          `json:"date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Parts          string          `json:"parts,omitempty"`
	Labor          string          `json:"labor,omitempty"`
	CompletionDate string          `json:"completion_date,omitempty"`
	Status         WorkOrderStatus `json:"status"`
	ReminderID     string          `json:"reminder_id,omitempty"`
}

// Clone returns an independent copy of the work order.
func (w WorkOrder) Clone() WorkOrder {
	out := w
	if w.Cost != nil {
		c := *w.Cost
		out.Cost = &c
	}
	return out
}

// WorkOrderPatch is a partial update for a work order. Nil fields are
// left untouched.
type WorkOrderPatch struct {
	Vehicle        *string          `json:"vehicle,omitempty"`
	Make           *string          `json:"make,omitempty"`
	Task           *string          `json:"task,omitempty"`
	Assignee       *string          `json:"assignee,omitempty"`
	Odo            *string          `json:"odo,omitempty"`
	Cost           *float64         `json:"cost,omitempty"`
	Date           *string          `json:"date,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
	Parts          *string          `json:"parts,omitempty"`
	Labor          *string          `json:"labor,omitempty"`
	CompletionDate *string          `json:"completion_date,omitempty"`
	Status         *WorkOrderStatus `json:"status,omitempty"`
}

// Apply merges the set fields of the patch onto the work order.
func (p *WorkOrderPatch) Apply(w *WorkOrder) {
	if p.Vehicle != nil {
		w.Vehicle = *p.Vehicle
	}
	if p.Make != nil {
		w.Make = *p.Make
	}
	if p.Task != nil {
		w.Task = *p.Task
	}
	if p.Assignee != nil {
		w.Assignee = *p.Assignee
	}
	if p.Odo != nil {
		w.Odo = *p.Odo
	}
	if p.Cost != nil {
		c := *p.Cost
		w.Cost = &c
	}
	if p.Date != nil {
		w.Date = *p.Date
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	if p.Parts != nil {
		w.Parts = *p.Parts
	}
	if p.Labor != nil {
		w.Labor = *p.Labor
	}
	if p.CompletionDate != nil {
		w.CompletionDate = *p.CompletionDate
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
}
