package persist

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB and verifies the connection with a
// ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

type slotDocument struct {
	ID        string    `bson:"_id"`
	Blob      []byte    `bson:"blob"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBackend keeps each slot as one document in a collection, keyed
// by slot name. The blob stays opaque bytes; MongoDB is used as a plain
// key-value store here.
type MongoBackend struct {
	collection *mongo.Collection
}

// NewMongoBackend returns a backend over the given collection.
func NewMongoBackend(collection *mongo.Collection) *MongoBackend {
	return &MongoBackend{collection: collection}
}

// Save upserts the blob for a slot.
func (b *MongoBackend) Save(ctx context.Context, slot Slot, blob []byte) error {
	if b.collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	doc := slotDocument{ID: string(slot), Blob: blob, UpdatedAt: time.Now()}
	opts := options.Replace().SetUpsert(true)
	_, err := b.collection.ReplaceOne(ctx, bson.M{"_id": string(slot)}, doc, opts)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Load fetches the blob for a slot; a missing document is reported as
// absent.
func (b *MongoBackend) Load(ctx context.Context, slot Slot) ([]byte, bool, error) {
	if b.collection == nil {
		return nil, false, fmt.Errorf("mongo collection is nil")
	}
	var doc slotDocument
	err := b.collection.FindOne(ctx, bson.M{"_id": string(slot)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load slot %s: %w", slot, err)
	}
	return doc.Blob, true, nil
}
