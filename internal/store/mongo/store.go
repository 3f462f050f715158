// Package mongo implements the primary database store against MongoDB.
// One generic collection store covers every record kind; the record id is
// stored as the document _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"selam/internal/content"
	"selam/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store[T any, P any] struct {
	coll *mongo.Collection
}

func NewStore[T any, P any](db *mongo.Database, collection string) *Store[T, P] {
	return &Store[T, P]{coll: db.Collection(collection)}
}

func (s *Store[T, P]) Insert(ctx context.Context, record *T) error {
	if _, err := s.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert into %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *Store[T, P]) FindAll(ctx context.Context, filter content.Filter) ([]*T, error) {
	query := bson.M{}
	for field, value := range filter {
		query[field] = value
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", s.coll.Name(), err)
	}

	var records []*T
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode %s cursor: %w", s.coll.Name(), err)
	}

	return records, nil
}

func (s *Store[T, P]) FindOne(ctx context.Context, id string) (*T, error) {
	record := new(T)
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, content.ErrNotFound
		}
		return nil, fmt.Errorf("find one in %s: %w", s.coll.Name(), err)
	}

	return record, nil
}

func (s *Store[T, P]) UpdateOne(ctx context.Context, id string, patch P) (*T, error) {
	set := bson.M{}
	for field, value := range utils.PatchToMap(patch, "bson") {
		set[field] = value
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	record := new(T)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, content.ErrNotFound
		}
		return nil, fmt.Errorf("update one in %s: %w", s.coll.Name(), err)
	}

	return record, nil
}

func (s *Store[T, P]) DeleteOne(ctx context.Context, id string) (bool, error) {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete one in %s: %w", s.coll.Name(), err)
	}

	return result.DeletedCount > 0, nil
}
