// Package telemetry feeds odometer readings from the vehicle fleet
// into the record store and drives the notification check.
package telemetry

import "context"

// Source is the external telemetry provider. A missing reading is not
// an error: ok=false means the vehicle has nothing newer to report.
type Source interface {
	// TrackedVehicles lists the vehicles the source currently has
	// readings for.
	TrackedVehicles(ctx context.Context) ([]string, error)
	// LatestOdometer returns the most recent odometer value for a
	// vehicle, in miles.
	LatestOdometer(ctx context.Context, vehicleID string) (value float64, ok bool, err error)
}
