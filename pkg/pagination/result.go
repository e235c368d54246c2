package pagination

// Edge pairs a returned item with its own cursor, derived from that item's
// sort-key values. Every edge is independently resumable: its cursor can
// seed a Forward or Backward request of its own.
type Edge[T any] struct {
	Cursor Cursor
	Node   T
}

// PageInfo describes whether more pages exist in either direction and
// carries the boundary cursors of the current page. An empty cursor means
// the page had no rows.
//
// StartCursor feeds a Backward request, NextCursor a Forward request.
// Both are set even when the corresponding page is empty.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     Cursor
	NextCursor      Cursor
}

// FindResult is one page of results: the page metadata, the edges, the
// decoded items in the same order, and the total count when requested.
type FindResult[T any] struct {
	PageInfo   PageInfo
	Edges      []Edge[T]
	Items      []T
	TotalCount int64
}
