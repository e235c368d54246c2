package document

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Srylax/mongodb-cursor-pagination/pkg/pagination"
)

// Filter represents field-based filtering criteria for document stores.
// Conditions are combined with AND logic.
type Filter map[string]interface{}

// toBSON renders the filter as a driver filter document.
func (f Filter) toBSON() bson.D {
	if len(f) == 0 {
		return bson.D{}
	}
	out := make(bson.D, 0, len(f))
	for field, value := range f {
		out = append(out, bson.E{Key: field, Value: value})
	}
	return out
}

// Reader provides paginated read operations for document entities.
type Reader[T any] interface {
	FindPaginated(ctx context.Context, req pagination.Request) (*pagination.FindResult[T], error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Repository is a MongoDB-backed Reader plus the minimal write surface
// needed to populate a collection. It binds one collection to a paginator.
type Repository[T any] struct {
	exec      *MongoExecutor
	paginator *pagination.Paginator[T]
}

// NewRepository creates a repository over a collection of the adapter's
// database.
func NewRepository[T any](exec *MongoExecutor, opts ...pagination.Option) (*Repository[T], error) {
	if exec == nil {
		return nil, fmt.Errorf("mongo executor is required")
	}
	return &Repository[T]{
		exec:      exec,
		paginator: pagination.New[T](exec, opts...),
	}, nil
}

// FindPaginated runs one page of a paginated find. See pagination.Request
// for the paging modes.
func (r *Repository[T]) FindPaginated(ctx context.Context, req pagination.Request) (*pagination.FindResult[T], error) {
	return r.paginator.Paginate(ctx, req)
}

// Count returns the number of documents matching the filter.
func (r *Repository[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	return r.exec.Count(ctx, filter.toBSON())
}

// Insert writes entities into the collection.
func (r *Repository[T]) Insert(ctx context.Context, entities ...T) error {
	docs := make([]interface{}, len(entities))
	for i, e := range entities {
		docs[i] = e
	}
	return r.exec.Insert(ctx, docs)
}
