// Package catalog resolves vehicle identifiers to catalog entries for
// display enrichment. A miss is never an error for callers: a write
// that wants a make simply leaves the field empty.
package catalog

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fleetops/fleet-maintenance/internal/models"
)

// Catalog looks up vehicles by id.
type Catalog interface {
	Lookup(ctx context.Context, vehicleID string) (models.Vehicle, bool)
}

// Static is an in-memory catalog, used for seed data and tests.
type Static struct {
	vehicles map[string]models.Vehicle
}

// NewStatic builds a catalog from a fixed vehicle list.
func NewStatic(vehicles []models.Vehicle) *Static {
	m := make(map[string]models.Vehicle, len(vehicles))
	for _, v := range vehicles {
		m[v.ID] = v
	}
	return &Static{vehicles: m}
}

// Lookup returns the catalog entry for a vehicle id.
func (c *Static) Lookup(_ context.Context, vehicleID string) (models.Vehicle, bool) {
	v, ok := c.vehicles[vehicleID]
	return v, ok
}

// Mongo resolves vehicles from a MongoDB collection keyed by vehicle
// id. Query failures are logged and reported as a miss so enrichment
// never blocks a write.
type Mongo struct {
	collection *mongo.Collection
}

// NewMongo returns a catalog over the given collection.
func NewMongo(collection *mongo.Collection) *Mongo {
	return &Mongo{collection: collection}
}

// Lookup finds one vehicle by id.
func (c *Mongo) Lookup(ctx context.Context, vehicleID string) (models.Vehicle, bool) {
	var v models.Vehicle
	err := c.collection.FindOne(ctx, bson.M{"_id": vehicleID}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Vehicle{}, false
	}
	if err != nil {
		log.WithError(err).WithField("vehicle_id", vehicleID).Warn("Vehicle lookup failed")
		return models.Vehicle{}, false
	}
	return v, true
}

// SeedVehicles is the default fleet catalog used when no MongoDB
// catalog is configured.
func SeedVehicles() []models.Vehicle {
	return []models.Vehicle{
		{ID: "TRK-101", Make: "Freightliner", Model: "Cascadia", Year: 2021, Status: "active"},
		{ID: "TRK-102", Make: "Volvo", Model: "VNL 760", Year: 2022, Status: "active"},
		{ID: "TRK-103", Make: "Kenworth", Model: "T680", Year: 2020, Status: "active"},
	}
}
