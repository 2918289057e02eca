package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/models"
)

// VehicleState tracks one simulated vehicle between ticks.
type VehicleState struct {
	VehicleID string
	Odometer  float64 // miles
	SpeedMph  float64
}

func publishReading(client mqtt.Client, s *VehicleState) {
	reading := models.OdometerReading{
		VehicleID: s.VehicleID,
		Odometer:  s.Odometer,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(reading)
	if err != nil {
		log.WithError(err).Error("Failed to marshal reading")
		return
	}

	topic := fmt.Sprintf("fleet/%s/odometer", s.VehicleID)
	token := client.Publish(topic, 1, true, data)
	token.Wait()
	if token.Error() != nil {
		log.WithError(token.Error()).WithField("vehicle_id", s.VehicleID).Error("Failed to publish reading")
		return
	}
	log.WithFields(log.Fields{
		"vehicle_id": s.VehicleID,
		"odometer":   fmt.Sprintf("%.1f", s.Odometer),
	}).Info("Published odometer reading")
}

func simulateVehicle(client mqtt.Client, s *VehicleState, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		// small speed noise
		s.SpeedMph += (rand.Float64()*2 - 1) * 3
		if s.SpeedMph < 10 {
			s.SpeedMph = 10
		}
		if s.SpeedMph > 70 {
			s.SpeedMph = 70
		}
		s.Odometer += s.SpeedMph * interval.Hours()

		publishReading(client, s)
	}
}

func main() {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://localhost:1883"
	}

	fleetSize := 5
	if v := os.Getenv("FLEET_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			fleetSize = n
		}
	}

	interval := 2 * time.Second
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			interval = time.Duration(n) * time.Second
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"broker":     broker,
		"interval":   interval,
	}).Info("Starting fleet odometer simulation")

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleet-maintenance-simulator").
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to broker")
	}
	defer client.Disconnect(250)

	states := make([]*VehicleState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		states = append(states, &VehicleState{
			VehicleID: fmt.Sprintf("TRK-%d", 101+i),
			Odometer:  40000 + rand.Float64()*50000,
			SpeedMph:  25 + rand.Float64()*30,
		})
	}

	for _, s := range states {
		go simulateVehicle(client, s, interval)
	}

	log.Info("Odometer simulation started")
	select {} // Block forever
}
