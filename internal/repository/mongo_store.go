package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoreQuery asks for selected fields of one document by id
type StoreQuery struct {
	Collection string
	ID         string
	Fields     []string
}

// StoreResponse is the raw answer to a StoreQuery.
// Data is nil when no document matched.
type StoreResponse struct {
	Data bson.Raw
}

// MongoStore is a request-scoped handle on the document store.
// It is cheap to build; the pooled connection lives on the shared *mongo.Database.
type MongoStore struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoStore creates a store handle. A zero timeout leaves queries unbounded.
func NewMongoStore(db *mongo.Database, timeout time.Duration) *MongoStore {
	return &MongoStore{
		db:      db,
		timeout: timeout,
	}
}

// Query runs a single find-by-id and returns the projected document
func (s *MongoStore) Query(ctx context.Context, q StoreQuery) (*StoreResponse, error) {
	if q.Collection == "" {
		return nil, errors.New("store query has no collection")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	findOpts := options.FindOne()
	if len(q.Fields) > 0 {
		projection := bson.D{}
		for _, f := range q.Fields {
			projection = append(projection, bson.E{Key: f, Value: 1})
		}
		findOpts.SetProjection(projection)
	}

	raw, err := s.db.Collection(q.Collection).FindOne(ctx, idFilter(q.ID), findOpts).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &StoreResponse{}, nil
		}
		return nil, fmt.Errorf("find %s in %s: %w", q.ID, q.Collection, err)
	}
	return &StoreResponse{Data: raw}, nil
}

// Insert stores a document and returns its id as a string
func (s *MongoStore) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateDocument
		}
		return "", fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	switch id := result.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

// EnsureIndexes creates the unique name index on the exercise collection
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	mod := mongo.IndexModel{
		Keys:    bson.M{"name": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection("exercises").Indexes().CreateOne(ctx, mod); err != nil {
		return fmt.Errorf("failed to create exercise name index: %w", err)
	}
	return nil
}

func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// idFilter keeps ids opaque. A string that parses as ObjectID hex matches
// either an ObjectID _id or the same string stored verbatim; anything else
// matches only the string.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}
