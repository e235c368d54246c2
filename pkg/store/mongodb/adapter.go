package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Srylax/mongodb-cursor-pagination/pkg/observability/logger"
	"github.com/Srylax/mongodb-cursor-pagination/pkg/pagination"
)

// Adapter provides MongoDB connectivity and the query surface the
// pagination engine needs: a bounded, sorted find and a filter-only count.
type Adapter struct {
	client   *mongo.Client
	database string
	logger   logger.Logger
	timeout  time.Duration
	mu       sync.RWMutex
	closed   bool
}

// Config holds MongoDB adapter configuration.
type Config struct {
	URL              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// NewAdapter connects to MongoDB and verifies connectivity with a ping.
// It does not create collections or indexes on its own.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongodb URL is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Noop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("MongoDB connection established", "database", cfg.Database)
	return &Adapter{
		client:   client,
		database: cfg.Database,
		logger:   log,
		timeout:  cfg.OperationTimeout,
	}, nil
}

func (a *Adapter) Client() *mongo.Client {
	return a.client
}

func (a *Adapter) Database() *mongo.Database {
	return a.client.Database(a.database)
}

func (a *Adapter) Collection(name string) *mongo.Collection {
	return a.Database().Collection(name)
}

func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.RLock()
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return fmt.Errorf("mongodb adapter is closed")
	}
	return a.client.Ping(ctx, readpref.Primary())
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := a.Ping(hcCtx); err != nil {
		a.logger.Error("MongoDB health check failed", "error", err)
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	return nil
}

// Find runs a translated pagination query against the collection and
// returns the matching documents as raw BSON, ordered by the query's sort.
func (a *Adapter) Find(ctx context.Context, collection string, query pagination.Query) ([]bson.Raw, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(query.Sort).SetLimit(query.Limit)
	if query.Skip > 0 {
		opts.SetSkip(query.Skip)
	}
	filter := query.Filter
	if filter == nil {
		filter = bson.D{}
	}

	cur, err := a.Collection(collection).Find(opCtx, filter, opts)
	if err != nil {
		return nil, err
	}
	var rows []bson.Raw
	if err := cur.All(opCtx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of documents matching the filter. The filter is
// used as-is; no pagination window applies.
func (a *Adapter) Count(ctx context.Context, collection string, filter bson.D) (int64, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	if filter == nil {
		filter = bson.D{}
	}
	return a.Collection(collection).CountDocuments(opCtx, filter)
}

// InsertMany inserts documents into the collection. It exists for seeding
// data in examples and tests; the pagination engine never writes.
func (a *Adapter) InsertMany(ctx context.Context, collection string, docs []interface{}) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	_, err := a.Collection(collection).InsertMany(opCtx, docs)
	return err
}

// EnsureSortIndex creates a compound index matching the sort spec, the
// index cursor pagination walks. Creation is idempotent.
func (a *Adapter) EnsureSortIndex(ctx context.Context, collection string, sort pagination.SortSpec) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()

	keys := make(bson.D, len(sort))
	for i, f := range sort {
		dir := int32(1)
		if f.Order == pagination.SortDesc {
			dir = -1
		}
		keys[i] = bson.E{Key: f.Field, Value: dir}
	}
	_, err := a.Collection(collection).Indexes().CreateOne(opCtx, mongo.IndexModel{Keys: keys})
	if err != nil {
		return fmt.Errorf("failed to create sort index: %w", err)
	}
	return nil
}

func (a *Adapter) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}
