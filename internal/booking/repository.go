package booking

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository stores appointments. Insert must fail with ErrSlotTaken when an
// active appointment already holds the same (date, time), atomically with
// respect to concurrent inserts.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
	FindByID(ctx context.Context, id string) (Appointment, error)
	ListActiveByDate(ctx context.Context, date string) ([]Appointment, error)
	HasActive(ctx context.Context, date, slot string) (bool, error)
	Insert(ctx context.Context, item Appointment) error
	Cancel(ctx context.Context, id string) (Appointment, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

// NewRepository expects the partial unique index created by db.EnsureIndexes.
func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func activeFilter(date string) bson.M {
	return bson.M{"date": date, "status": bson.M{"$ne": StatusCancelled}}
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	query := bson.M{}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
		{Key: "created_at", Value: 1},
	})
	return r.find(ctx, query, opts)
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Appointment, error) {
	var item Appointment
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListActiveByDate(ctx context.Context, date string) ([]Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	return r.find(ctx, activeFilter(date), opts)
}

func (r *MongoRepository) HasActive(ctx context.Context, date, slot string) (bool, error) {
	query := activeFilter(date)
	query["time"] = slot
	n, err := r.col.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoRepository) Insert(ctx context.Context, item Appointment) error {
	if _, err := r.col.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *MongoRepository) Cancel(ctx context.Context, id string) (Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": StatusCancelled}}

	var updated Appointment
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}
	return updated, nil
}

func (r *MongoRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Appointment, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Appointment, 0)
	for cursor.Next(ctx) {
		var item Appointment
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
