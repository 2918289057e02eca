package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/store"
)

// WorkOrderHandler serves the work order CRUD endpoints.
type WorkOrderHandler struct {
	store *store.Store
}

// NewWorkOrderHandler creates a new work order handler.
func NewWorkOrderHandler(s *store.Store) *WorkOrderHandler {
	return &WorkOrderHandler{store: s}
}

// List returns all work orders in creation order.
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.WorkOrders())
}

// Create validates and stores a manually entered work order.
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var wo models.WorkOrder
	if err := json.NewDecoder(r.Body).Decode(&wo); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if wo.Vehicle == "" {
		http.Error(w, "Vehicle is required", http.StatusBadRequest)
		return
	}
	if wo.Task == "" {
		http.Error(w, "Task is required", http.StatusBadRequest)
		return
	}
	if wo.Status == "" {
		wo.Status = models.WorkOrderOpen
	}
	if !models.IsValidWorkOrderStatus(wo.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, h.store.AddWorkOrder(wo))
}

// Update merges a partial edit onto a work order.
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.WorkOrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if patch.Status != nil && !models.IsValidWorkOrderStatus(*patch.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	updated, ok := h.store.UpdateWorkOrder(r.PathValue("id"), patch)
	if !ok {
		http.Error(w, "Work order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a work order.
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.store.DeleteWorkOrder(r.PathValue("id")) {
		http.Error(w, "Work order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
