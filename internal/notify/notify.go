// Package notify detects newly overdue reminders and raises at most
// one notification per overdue episode.
package notify

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/models"
	"github.com/fleetops/fleet-maintenance/internal/status"
	"github.com/fleetops/fleet-maintenance/internal/store"
)

// Event is one raised notification. Over is the amount by which the
// reminder's current value has passed its target.
type Event struct {
	Reminder models.Reminder `json:"reminder"`
	Over     float64         `json:"over"`
}

// Sink receives notification events. The pipeline has no knowledge of
// how they are displayed.
type Sink interface {
	Notify(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Notify calls the wrapped function.
func (f SinkFunc) Notify(ev Event) { f(ev) }

// Sinks fans one event out to several sinks.
type Sinks []Sink

// Notify delivers the event to every sink in order.
func (s Sinks) Notify(ev Event) {
	for _, sink := range s {
		sink.Notify(ev)
	}
}

// LogSink writes notifications to the structured log.
type LogSink struct{}

// Notify logs the event.
func (LogSink) Notify(ev Event) {
	log.WithFields(log.Fields{
		"reminder_id": ev.Reminder.ID,
		"task":        ev.Reminder.Task,
		"vehicles":    ev.Reminder.Vehicles,
		"over":        ev.Over,
	}).Warn("Maintenance reminder overdue")
}

// Pipeline scans the store for overdue, not-yet-notified reminders and
// emits the single highest-priority one.
type Pipeline struct {
	mu    sync.Mutex
	store *store.Store
	sink  Sink
}

// NewPipeline wires the pipeline to a store and a sink.
func NewPipeline(s *store.Store, sink Sink) *Pipeline {
	return &Pipeline{store: s, sink: sink}
}

// CheckTriggered selects reminders that are overdue and unnotified,
// orders them by priority (stable for ties), emits the front element to
// the sink, and marks it notified in the same step. Re-polling before
// any state change never re-fires: each overdue episode produces
// exactly one notification. Returns whether an event was raised.
//
// The pipeline serializes its own select-then-mark step: the poller and
// the HTTP push path may both call in, and the at-most-once guarantee
// has to hold across them.
func (p *Pipeline) CheckTriggered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	var candidates []models.Reminder
	for _, r := range p.store.Reminders() {
		if r.Status == models.StatusOverdue && !r.Notified {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return false
	}

	status.SortByPriority(candidates)
	top := candidates[0]
	p.sink.Notify(Event{Reminder: top, Over: status.Over(top.Current, top.Target)})
	p.store.MarkNotified(top.ID)
	return true
}
