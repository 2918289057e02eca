// Package store owns the reminder and work order collections. It is
// the single source of truth: reads hand out copies, writes go through
// the store so status recomputation and durability cannot be bypassed.
package store

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/persist"
)

const saveTimeout = 5 * time.Second

// Store is a map-backed record store for reminders and work orders.
// Construct one per process and pass it by reference; there is no
// package-level instance.
//
// Identifier counters are strictly increasing for the lifetime of the
// store and survive restarts through the durability backend, so ids
// are never reused even after deletion.
type Store struct {
	mu sync.Mutex

	reminders     map[string]*models.Reminder
	reminderOrder []string // most-recent-first

	workOrders     map[string]*models.WorkOrder
	workOrderOrder []string // insertion order

	reminderSeq  int
	workOrderSeq int

	backend persist.Backend
}

// New builds a store from the durability backend. Absent or corrupt
// state falls back to seed defaults; a failing backend degrades the
// store to in-memory operation instead of failing construction.
func New(backend persist.Backend) *Store {
	s := &Store{
		reminders:  make(map[string]*models.Reminder),
		workOrders: make(map[string]*models.WorkOrder),
		backend:    backend,
	}
	s.load()
	return s
}

func (s *Store) load() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	reminders := seedReminders()
	if blob, ok := s.loadSlot(ctx, persist.SlotReminders); ok {
		var stored []models.Reminder
		if err := json.Unmarshal(blob, &stored); err != nil {
			log.WithError(err).Warn("Corrupt reminder state, using seed data")
		} else {
			reminders = stored
		}
	}
	for _, r := range reminders {
		rec := r.Clone()
		s.reminders[rec.ID] = &rec
		s.reminderOrder = append(s.reminderOrder, rec.ID)
	}

	workOrders := seedWorkOrders()
	if blob, ok := s.loadSlot(ctx, persist.SlotWorkOrders); ok {
		var stored []models.WorkOrder
		if err := json.Unmarshal(blob, &stored); err != nil {
			log.WithError(err).Warn("Corrupt work order state, using seed data")
		} else {
			workOrders = stored
		}
	}
	for _, w := range workOrders {
		rec := w.Clone()
		s.workOrders[rec.ID] = &rec
		s.workOrderOrder = append(s.workOrderOrder, rec.ID)
	}

	s.reminderSeq = s.loadCounter(ctx, persist.SlotReminderCounter, seedReminderSeq)
	s.workOrderSeq = s.loadCounter(ctx, persist.SlotWorkOrderCounter, seedWorkOrderSeq)
}

func (s *Store) loadSlot(ctx context.Context, slot persist.Slot) ([]byte, bool) {
	if s.backend == nil {
		return nil, false
	}
	blob, ok, err := s.backend.Load(ctx, slot)
	if err != nil {
		log.WithError(err).WithField("slot", slot).Warn("Durability load failed, continuing in-memory")
		return nil, false
	}
	return blob, ok
}

func (s *Store) loadCounter(ctx context.Context, slot persist.Slot, fallback int) int {
	blob, ok := s.loadSlot(ctx, slot)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(string(blob))
	if err != nil {
		log.WithError(err).WithField("slot", slot).Warn("Corrupt counter state, using seed value")
		return fallback
	}
	return n
}

// persistLocked serializes both collections and both counters to the
// backend. Callers hold s.mu. Failures are logged and swallowed: the
// store keeps operating in memory and the next successful save catches
// up.
func (s *Store) persistLocked() {
	if s.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	reminders := make([]models.Reminder, 0, len(s.reminderOrder))
	for _, id := range s.reminderOrder {
		reminders = append(reminders, s.reminders[id].Clone())
	}
	workOrders := make([]models.WorkOrder, 0, len(s.workOrderOrder))
	for _, id := range s.workOrderOrder {
		workOrders = append(workOrders, s.workOrders[id].Clone())
	}

	s.saveSlot(ctx, persist.SlotReminders, reminders)
	s.saveSlot(ctx, persist.SlotWorkOrders, workOrders)
	s.saveCounter(ctx, persist.SlotReminderCounter, s.reminderSeq)
	s.saveCounter(ctx, persist.SlotWorkOrderCounter, s.workOrderSeq)
}

func (s *Store) saveSlot(ctx context.Context, slot persist.Slot, v interface{}) {
	blob, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("slot", slot).Warn("Serialize failed")
		return
	}
	if err := s.backend.Save(ctx, slot, blob); err != nil {
		log.WithError(err).WithField("slot", slot).Warn("Durability save failed, continuing in-memory")
	}
}

func (s *Store) saveCounter(ctx context.Context, slot persist.Slot, n int) {
	if err := s.backend.Save(ctx, slot, []byte(strconv.Itoa(n))); err != nil {
		log.WithError(err).WithField("slot", slot).Warn("Durability save failed, continuing in-memory")
	}
}
