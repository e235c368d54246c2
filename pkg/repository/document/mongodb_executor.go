package document

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Srylax/mongodb-cursor-pagination/pkg/pagination"
	mongostore "github.com/Srylax/mongodb-cursor-pagination/pkg/store/mongodb"
)

// MongoExecutor adapts one collection of a store/mongodb adapter to the
// pagination.Executor contract.
type MongoExecutor struct {
	adapter    *mongostore.Adapter
	collection string
}

// NewMongoExecutor creates an executor bound to the named collection.
func NewMongoExecutor(adapter *mongostore.Adapter, collection string) (*MongoExecutor, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	return &MongoExecutor{adapter: adapter, collection: collection}, nil
}

// Find runs the translated pagination query against the collection.
func (e *MongoExecutor) Find(ctx context.Context, query pagination.Query) ([]bson.Raw, error) {
	return e.adapter.Find(ctx, e.collection, query)
}

// Count returns the number of documents matching the filter.
func (e *MongoExecutor) Count(ctx context.Context, filter bson.D) (int64, error) {
	return e.adapter.Count(ctx, e.collection, filter)
}

// Insert writes documents into the collection.
func (e *MongoExecutor) Insert(ctx context.Context, docs []interface{}) error {
	return e.adapter.InsertMany(ctx, e.collection, docs)
}
