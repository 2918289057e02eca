package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fleetops/fleet-maintenance/internal/catalog"
	"github.com/fleetops/fleet-maintenance/internal/config"
	"github.com/fleetops/fleet-maintenance/internal/convert"
	"github.com/fleetops/fleet-maintenance/internal/handlers"
	"github.com/fleetops/fleet-maintenance/internal/notify"
	"github.com/fleetops/fleet-maintenance/internal/persist"
	"github.com/fleetops/fleet-maintenance/internal/store"
	"github.com/fleetops/fleet-maintenance/internal/telemetry"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, vehicleCatalog := buildBackendAndCatalog(ctx, cfg)
	recordStore := store.New(backend)

	hub := handlers.NewHub()
	go hub.Run()

	pipeline := notify.NewPipeline(recordStore, notify.Sinks{notify.LogSink{}, hub})
	converter := convert.NewConverter(recordStore, vehicleCatalog)

	if cfg.MQTTBroker != "" {
		source, err := telemetry.NewMQTTSource(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.WithError(err).Warn("Telemetry source unavailable, relying on pushed readings")
		} else {
			defer source.Close()
			poller := telemetry.NewPoller(recordStore, source, pipeline, cfg.PollInterval, cfg.FetchTimeout)
			go poller.Run(ctx)
		}
	}

	reminderHandler := handlers.NewReminderHandler(recordStore, converter)
	workOrderHandler := handlers.NewWorkOrderHandler(recordStore)
	telemetryHandler := handlers.NewTelemetryHandler(recordStore, pipeline)
	statsHandler := handlers.NewStatsHandler(recordStore)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reminders", reminderHandler.List)
	mux.HandleFunc("POST /api/reminders", reminderHandler.Create)
	mux.HandleFunc("PUT /api/reminders/{id}", reminderHandler.Update)
	mux.HandleFunc("DELETE /api/reminders/{id}", reminderHandler.Delete)
	mux.HandleFunc("POST /api/reminders/{id}/convert", reminderHandler.Convert)
	mux.HandleFunc("GET /api/workorders", workOrderHandler.List)
	mux.HandleFunc("POST /api/workorders", workOrderHandler.Create)
	mux.HandleFunc("PUT /api/workorders/{id}", workOrderHandler.Update)
	mux.HandleFunc("DELETE /api/workorders/{id}", workOrderHandler.Delete)
	mux.HandleFunc("POST /api/telemetry", telemetryHandler.Push)
	mux.HandleFunc("GET /api/stats", statsHandler.Get)
	mux.HandleFunc("GET /api/ws", hub.HandleWebSocket)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP shutdown failed")
	}
}

// buildBackendAndCatalog picks MongoDB when configured, falling back to
// file-based state so the process always comes up.
func buildBackendAndCatalog(ctx context.Context, cfg *config.Config) (persist.Backend, catalog.Catalog) {
	staticCatalog := catalog.NewStatic(catalog.SeedVehicles())

	if cfg.MongoURI != "" {
		client, err := persist.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Warn("MongoDB unavailable, using file-backed state")
		} else {
			db := client.Database(cfg.MongoDB)
			log.WithField("database", cfg.MongoDB).Info("Using MongoDB durability backend")
			return persist.NewMongoBackend(db.Collection("state")), catalog.NewMongo(db.Collection("vehicles"))
		}
	}

	backend, err := persist.NewFileBackend(cfg.DataDir)
	if err != nil {
		log.WithError(err).Warn("File backend unavailable, running in-memory only")
		return nil, staticCatalog
	}
	return backend, staticCatalog
}
