package models

import "time"

// OdometerReading is one telemetry sample for a vehicle. Values arrive
// already converted to the display unit (miles); unit conversion is an
// upstream concern.
type OdometerReading struct {
	VehicleID string    `json:"vehicle_id"`
	Odometer  float64   `json:"odometer"`
	Timestamp time.Time `json:"timestamp"`
}
