package pagination

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/Srylax/mongodb-cursor-pagination/pkg/observability/logger"
)

// Executor runs the queries the engine translates. Implementations wrap a
// database driver; errors they return are propagated to the caller wrapped
// in ExecutionError.
type Executor interface {
	// Find returns the documents matching the query, ordered by its sort,
	// at most query.Limit rows.
	Find(ctx context.Context, query Query) ([]bson.Raw, error)

	// Count returns the number of documents matching the filter alone,
	// ignoring any pagination window.
	Count(ctx context.Context, filter bson.D) (int64, error)
}

// Paginator is the entry point of the engine. It holds no per-request
// state: any number of Paginate calls may run concurrently.
type Paginator[T any] struct {
	exec Executor
	log  logger.Logger
}

// Option configures a Paginator.
type Option func(*settings)

type settings struct {
	log logger.Logger
}

// WithLogger injects a logger for debug output. The default is a no-op
// logger.
func WithLogger(log logger.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// New creates a Paginator over the given executor.
func New[T any](exec Executor, opts ...Option) *Paginator[T] {
	s := settings{log: logger.Noop()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Paginator[T]{exec: exec, log: s.log}
}

// Paginate translates the request, runs the bounded find (and the count,
// when requested) and assembles the page. The find and count are
// independent: the count always runs against the base filter, so the two
// queries execute concurrently.
//
// The context deadline, if any, bounds both queries; the engine adds no
// timeout and no retry of its own.
func (p *Paginator[T]) Paginate(ctx context.Context, req Request) (*FindResult[T], error) {
	query, err := Translate(req)
	if err != nil {
		return nil, err
	}
	codec, err := NewCodec(req.Sort)
	if err != nil {
		return nil, err
	}

	p.log.Debug("executing paginated find",
		"limit", query.Limit, "skip", query.Skip, "with_total", req.WithTotal)

	var (
		rows  []bson.Raw
		total int64
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		found, err := p.exec.Find(groupCtx, query)
		if err != nil {
			return &ExecutionError{Op: "find", Err: err}
		}
		rows = found
		return nil
	})
	if req.WithTotal {
		group.Go(func() error {
			counted, err := p.exec.Count(groupCtx, req.Filter)
			if err != nil {
				return &ExecutionError{Op: "count", Err: err}
			}
			total = counted
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result, err := assemblePage[T](rows, req, codec)
	if err != nil {
		return nil, err
	}
	result.TotalCount = total

	p.log.Debug("assembled page",
		"rows", len(result.Items),
		"has_next", result.PageInfo.HasNextPage,
		"has_previous", result.PageInfo.HasPreviousPage)
	return result, nil
}
