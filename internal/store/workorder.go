package store

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/models"
)

// AddWorkOrder assigns the next work order id, appends, persists, and
// returns the stored copy. Work orders number in their own space,
// pre-increment, so the first id ever issued is WO-1.
func (s *Store) AddWorkOrder(data models.WorkOrder) models.WorkOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := data.Clone()
	s.workOrderSeq++
	rec.ID = fmt.Sprintf("WO-%d", s.workOrderSeq)
	if rec.Status == "" {
		rec.Status = models.WorkOrderOpen
	}

	s.workOrders[rec.ID] = &rec
	s.workOrderOrder = append(s.workOrderOrder, rec.ID)
	s.persistLocked()

	log.WithFields(log.Fields{"workorder_id": rec.ID, "vehicle": rec.Vehicle}).Info("Work order created")
	return rec.Clone()
}

// UpdateWorkOrder merges the patch onto an existing work order; ok is
// false on an unknown id and nothing is created.
func (s *Store) UpdateWorkOrder(id string, patch models.WorkOrderPatch) (models.WorkOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.workOrders[id]
	if !ok {
		return models.WorkOrder{}, false
	}
	patch.Apply(rec)
	s.persistLocked()
	return rec.Clone(), true
}

// DeleteWorkOrder removes a work order if present.
func (s *Store) DeleteWorkOrder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workOrders[id]; !ok {
		return false
	}
	delete(s.workOrders, id)
	for i, wid := range s.workOrderOrder {
		if wid == id {
			s.workOrderOrder = append(s.workOrderOrder[:i], s.workOrderOrder[i+1:]...)
			break
		}
	}
	s.persistLocked()
	return true
}

// WorkOrder returns a copy of one work order.
func (s *Store) WorkOrder(id string) (models.WorkOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.workOrders[id]
	if !ok {
		return models.WorkOrder{}, false
	}
	return rec.Clone(), true
}

// WorkOrders returns a snapshot of the collection in insertion order.
func (s *Store) WorkOrders() []models.WorkOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.WorkOrder, 0, len(s.workOrderOrder))
	for _, id := range s.workOrderOrder {
		out = append(out, s.workOrders[id].Clone())
	}
	return out
}
