// Package config reads process configuration from the environment,
// with a .env file loaded when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds everything the server process needs at startup.
type Config struct {
	HTTPAddr string

	// MongoURI switches durability and the vehicle catalog to MongoDB
	// when set; otherwise state lives in DataDir as JSON files.
	MongoURI string
	MongoDB  string
	DataDir  string

	// MQTTBroker enables the telemetry subscription when set.
	MQTTBroker   string
	MQTTClientID string

	PollInterval time.Duration
	FetchTimeout time.Duration
}

// Load reads the configuration, applying defaults for anything unset.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	return &Config{
		HTTPAddr:     ":" + envOr("PORT", "8080"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      envOr("MONGO_DB", "fleet_maintenance"),
		DataDir:      envOr("DATA_DIR", "./data"),
		MQTTBroker:   os.Getenv("MQTT_BROKER"),
		MQTTClientID: envOr("MQTT_CLIENT_ID", "fleet-maintenance-server"),
		PollInterval: envDuration("POLL_INTERVAL", 30*time.Second),
		FetchTimeout: envDuration("FETCH_TIMEOUT", 5*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.WithField("key", key).Warn("Invalid duration, using default")
	return fallback
}
