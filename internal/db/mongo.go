package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Services     *mongo.Collection
	Appointments *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, Open(client.Database(dbName)), nil
}

func Open(db *mongo.Database) *Collections {
	return &Collections{
		Services:     db.Collection("services"),
		Appointments: db.Collection("appointments"),
	}
}

// ActiveSlotIndex is the name of the index that allows at most one
// confirmed appointment per (date, time).
const ActiveSlotIndex = "active_slot_unique"

// IDIndex is the unique index on the "id" field of both collections.
const IDIndex = "id_unique"

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := cols.Services.Indexes().CreateOne(indexTimeout, idIndex()); err != nil {
		return err
	}

	_, err := cols.Appointments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		idIndex(),
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetName(ActiveSlotIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "confirmed"}),
		},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	return err
}

// idIndex keys documents by their "id" field. _id stays an ObjectId so
// collections written by earlier deployments keep working.
func idIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName(IDIndex).SetUnique(true),
	}
}

func Ping(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}
