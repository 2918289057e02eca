package telemetry

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/notify"
	"github.com/fleetops/fleet-maintenance/internal/store"
)

// Poller periodically pulls the latest odometer reading for every
// vehicle the store tracks and applies them. Fetches within one cycle
// fan out concurrently, each bounded by its own timeout; a missing or
// failed reading only skips that vehicle, never the batch.
type Poller struct {
	store    *store.Store
	source   Source
	pipeline *notify.Pipeline

	interval     time.Duration
	fetchTimeout time.Duration

	// onRefresh fires after a cycle that changed at least one
	// reminder, for hosts that mirror state elsewhere. Optional.
	onRefresh func()
}

// NewPoller wires a poller. fetchTimeout bounds one vehicle's fetch so
// a stuck request cannot starve the rest of the batch.
func NewPoller(s *store.Store, src Source, pipeline *notify.Pipeline, interval, fetchTimeout time.Duration) *Poller {
	return &Poller{
		store:        s,
		source:       src,
		pipeline:     pipeline,
		interval:     interval,
		fetchTimeout: fetchTimeout,
	}
}

// OnRefresh registers a hook invoked after any cycle that changed
// reminder state.
func (p *Poller) OnRefresh(fn func()) { p.onRefresh = fn }

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.WithField("interval", p.interval).Info("Telemetry poller started")
	for {
		select {
		case <-ticker.C:
			p.Poll(ctx)
		case <-ctx.Done():
			log.Info("Telemetry poller stopped")
			return
		}
	}
}

type fetched struct {
	vehicleID string
	value     float64
}

// Poll runs one cycle: fan out a fetch per tracked vehicle, apply the
// readings, then run the notification check. The check runs even when
// nothing changed, since an existing overdue-but-unnotified reminder
// still has to be caught. Returns whether any reminder changed.
func (p *Poller) Poll(ctx context.Context) bool {
	vehicles := p.store.UniqueVehicles()

	results := make(chan fetched, len(vehicles))
	var wg sync.WaitGroup
	for _, vehicleID := range vehicles {
		wg.Add(1)
		go func(vehicleID string) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
			defer cancel()

			value, ok, err := p.source.LatestOdometer(fetchCtx, vehicleID)
			if err != nil {
				log.WithError(err).WithField("vehicle_id", vehicleID).Debug("Odometer fetch failed, keeping last value")
				return
			}
			if !ok {
				return
			}
			results <- fetched{vehicleID: vehicleID, value: value}
		}(vehicleID)
	}
	wg.Wait()
	close(results)

	// A cancelled cycle stops here rather than applying readings from
	// a superseded batch.
	if ctx.Err() != nil {
		return false
	}

	changed := false
	for r := range results {
		if p.store.UpdateOdometer(r.vehicleID, r.value) {
			changed = true
		}
	}

	if changed && p.onRefresh != nil {
		p.onRefresh()
	}
	p.pipeline.CheckTriggered()
	return changed
}
