package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	List(ctx context.Context) ([]Service, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (Service, error)
	Insert(ctx context.Context, items ...Service) error
	// InsertMissing adds the items whose id is not stored yet and reports
	// how many were added. Concurrent calls never store an id twice.
	InsertMissing(ctx context.Context, items ...Service) (int, error)
	Replace(ctx context.Context, item Service) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) List(ctx context.Context) ([]Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Service, 0)
	for cursor.Next(ctx) {
		var svc Service
		if err := cursor.Decode(&svc); err != nil {
			return nil, err
		}
		items = append(items, svc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.D{})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (Service, error) {
	var svc Service
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Service{}, ErrNotFound
		}
		return Service{}, err
	}
	return svc, nil
}

func (r *MongoRepository) Insert(ctx context.Context, items ...Service) error {
	switch len(items) {
	case 0:
		return nil
	case 1:
		_, err := r.col.InsertOne(ctx, items[0])
		return err
	}
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

// InsertMissing relies on the unique index on "id"; a concurrent upsert that
// loses the race surfaces as a duplicate key and counts as already present.
func (r *MongoRepository) InsertMissing(ctx context.Context, items ...Service) (int, error) {
	opts := options.Update().SetUpsert(true)
	added := 0
	for _, item := range items {
		res, err := r.col.UpdateOne(ctx, bson.M{"id": item.ID}, bson.M{"$setOnInsert": item}, opts)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return added, err
		}
		if res.UpsertedCount > 0 {
			added++
		}
	}
	return added, nil
}

func (r *MongoRepository) Replace(ctx context.Context, item Service) (bool, error) {
	res, err := r.col.ReplaceOne(ctx, bson.M{"id": item.ID}, item)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
