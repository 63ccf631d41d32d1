package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("document not found")

// Collection is a typed view over a single mongo collection
type Collection[T any] struct {
	collection *mongo.Collection
}

func NewCollection[T any](collection *mongo.Collection) *Collection[T] {
	return &Collection[T]{collection: collection}
}

func (c *Collection[T]) Name() string {
	return c.collection.Name()
}

func (c *Collection[T]) InsertOne(ctx context.Context, document *T) (primitive.ObjectID, error) {
	result, err := c.collection.InsertOne(ctx, document)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting into %s: %w", c.Name(), err)
	}

	id, _ := result.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c *Collection[T]) InsertMany(ctx context.Context, documents []T) ([]primitive.ObjectID, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	operations := make([]interface{}, 0, len(documents))
	for i := range documents {
		operations = append(operations, &documents[i])
	}

	result, err := c.collection.InsertMany(ctx, operations, options.InsertMany().SetOrdered(false))
	if err != nil {
		return nil, fmt.Errorf("inserting many into %s: %w", c.Name(), err)
	}

	ids := make([]primitive.ObjectID, 0, len(result.InsertedIDs))
	for _, insertedID := range result.InsertedIDs {
		if id, ok := insertedID.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	var document T

	err := c.collection.FindOne(ctx, filter).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", c.Name(), ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("finding in %s: %w", c.Name(), err)
	}

	return &document, nil
}

func (c *Collection[T]) Find(ctx context.Context, filter Filter, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("finding in %s: %w", c.Name(), err)
	}

	documents := []T{}
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.Name(), err)
	}

	return documents, nil
}

func (c *Collection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	return c.collection.CountDocuments(ctx, filter)
}

// Update replaces the whole document with the given id, inserting it when it does not exist
func (c *Collection[T]) Update(ctx context.Context, id primitive.ObjectID, document *T) error {
	_, err := c.collection.ReplaceOne(ctx, bson.M{"_id": id}, document, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", c.Name(), id.Hex(), err)
	}

	return nil
}

// UpsertOne replaces the first document matching the filter, inserting it when nothing matches
func (c *Collection[T]) UpsertOne(ctx context.Context, filter Filter, document *T) error {
	_, err := c.collection.ReplaceOne(ctx, filter, document, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upserting into %s: %w", c.Name(), err)
	}

	return nil
}

// ReplaceExisting replaces the document with the given id only if it still exists
func (c *Collection[T]) ReplaceExisting(ctx context.Context, id primitive.ObjectID, document *T) (bool, error) {
	result, err := c.collection.ReplaceOne(ctx, bson.M{"_id": id}, document)
	if err != nil {
		return false, fmt.Errorf("replacing %s %s: %w", c.Name(), id.Hex(), err)
	}

	return result.MatchedCount > 0, nil
}

func (c *Collection[T]) DeleteOne(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := c.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("deleting from %s: %w", c.Name(), err)
	}

	return result.DeletedCount > 0, nil
}

func (c *Collection[T]) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	result, err := c.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", c.Name(), err)
	}

	return result.DeletedCount, nil
}

func (c *Collection[T]) Clear(ctx context.Context) (int64, error) {
	return c.DeleteMany(ctx, All())
}
