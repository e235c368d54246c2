package pagination

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// assemblePage converts the raw rows returned by the executor into a
// FindResult. rows must be ordered as the executor's sort produced them,
// i.e. still reversed for backward queries, and contain at most limit+1
// entries. Anything beyond that is a broken executor contract and panics
// with ContractViolationError.
func assemblePage[T any](rows []bson.Raw, req Request, codec *Codec) (*FindResult[T], error) {
	fetchLimit := int(req.Limit) + 1
	if len(rows) > fetchLimit {
		panic(&ContractViolationError{Expected: fetchLimit, Actual: len(rows)})
	}

	// The extra row only proves a further page exists in the direction
	// traveled; it is never part of the page.
	more := len(rows) == fetchLimit
	if more {
		rows = rows[:len(rows)-1]
	}

	backward := false
	if mode, ok := req.Mode.(cursorMode); ok {
		backward = mode.backward
	}
	if backward {
		// Restore sort-spec order for the caller.
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	edges := make([]Edge[T], len(rows))
	items := make([]T, len(rows))
	for i, row := range rows {
		cursor, err := codec.Encode(codec.keyFromDocument(row))
		if err != nil {
			return nil, fmt.Errorf("failed to build edge cursor: %w", err)
		}
		var item T
		if err := bson.Unmarshal(row, &item); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		edges[i] = Edge[T]{Cursor: cursor, Node: item}
		items[i] = item
	}

	info := PageInfo{}
	switch mode := req.Mode.(type) {
	case nil:
		info.HasNextPage = more
	case offsetMode:
		info.HasNextPage = more
		info.HasPreviousPage = mode.skip > 0
	case cursorMode:
		if mode.backward {
			// Something follows by definition: the cursor came from there.
			info.HasNextPage = true
			info.HasPreviousPage = more
		} else {
			info.HasNextPage = more
			info.HasPreviousPage = true
		}
	}
	if len(edges) > 0 {
		info.StartCursor = edges[0].Cursor
		info.NextCursor = edges[len(edges)-1].Cursor
	}

	return &FindResult[T]{
		PageInfo: info,
		Edges:    edges,
		Items:    items,
	}, nil
}
