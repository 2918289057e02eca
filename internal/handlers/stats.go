package handlers

import (
	"net/http"

	"github.com/fleetops/fleet-maintenance/internal/store"
)

// StatsHandler serves dashboard aggregations.
type StatsHandler struct {
	store *store.Store
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(s *store.Store) *StatsHandler {
	return &StatsHandler{store: s}
}

// Get returns reminder and work order counts plus month-to-date spend.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}
