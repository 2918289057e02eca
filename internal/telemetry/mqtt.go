package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/models"
)

// OdometerTopic is the subscription filter for vehicle odometer
// readings. Vehicles publish to fleet/<vehicle_id>/odometer.
const OdometerTopic = "fleet/+/odometer"

// MQTTSource subscribes to the fleet odometer topic and keeps the
// latest reading per vehicle in memory, serving them through the
// Source interface. Stale cache entries are harmless: the store
// overwrites in place with whatever the newest value is.
type MQTTSource struct {
	client mqtt.Client

	mu     sync.RWMutex
	latest map[string]models.OdometerReading
}

// NewMQTTSource connects to the broker and subscribes to odometer
// readings.
func NewMQTTSource(brokerURL, clientID string) (*MQTTSource, error) {
	s := &MQTTSource{latest: make(map[string]models.OdometerReading)}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			if token := c.Subscribe(OdometerTopic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
				log.WithError(token.Error()).Error("MQTT subscribe failed")
			}
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	s.client = client

	log.WithFields(log.Fields{"broker": brokerURL, "topic": OdometerTopic}).Info("Telemetry source connected")
	return s, nil
}

func (s *MQTTSource) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var reading models.OdometerReading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("Dropping malformed odometer reading")
		return
	}
	if reading.VehicleID == "" {
		log.WithField("topic", msg.Topic()).Warn("Dropping odometer reading without vehicle id")
		return
	}

	s.mu.Lock()
	s.latest[reading.VehicleID] = reading
	s.mu.Unlock()
}

// TrackedVehicles lists vehicles that have reported at least once.
func (s *MQTTSource) TrackedVehicles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.latest))
	for id := range s.latest {
		out = append(out, id)
	}
	return out, nil
}

// LatestOdometer returns the cached reading for a vehicle.
func (s *MQTTSource) LatestOdometer(_ context.Context, vehicleID string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reading, ok := s.latest[vehicleID]
	if !ok {
		return 0, false, nil
	}
	return reading.Odometer, true, nil
}

// Close disconnects from the broker.
func (s *MQTTSource) Close() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}
