package pagination

import "go.mongodb.org/mongo-driver/bson"

// PagingMode selects how a request resumes within the result set. The
// variant is fixed when the request is built; offset and cursor paging
// never mix inside the query path.
//
// A nil mode requests the first page.
type PagingMode interface {
	pagingMode()
}

// offsetMode is classic skip/limit paging.
type offsetMode struct {
	skip int64
}

func (offsetMode) pagingMode() {}

// cursorMode resumes from a cursor token, forward or backward.
type cursorMode struct {
	token    Cursor
	backward bool
}

func (cursorMode) pagingMode() {}

// Offset returns a paging mode that skips the given number of rows.
// Negative values are treated as zero.
func Offset(skip int64) PagingMode {
	if skip < 0 {
		skip = 0
	}
	return offsetMode{skip: skip}
}

// Forward returns a paging mode that resumes after the given cursor,
// moving in sort-spec order.
func Forward(cursor Cursor) PagingMode {
	return cursorMode{token: cursor}
}

// Backward returns a paging mode that resumes before the given cursor,
// moving against sort-spec order. The page content is still returned in
// sort-spec order.
func Backward(cursor Cursor) PagingMode {
	return cursorMode{token: cursor, backward: true}
}

// ModeFrom builds a paging mode from loosely typed request parameters,
// applying the precedence rule once: a non-zero skip selects offset mode
// and any cursor is ignored; otherwise a non-empty cursor selects cursor
// mode; otherwise the first page is requested.
func ModeFrom(skip int64, cursor Cursor, backward bool) PagingMode {
	if skip > 0 {
		return Offset(skip)
	}
	if cursor != "" {
		if backward {
			return Backward(cursor)
		}
		return Forward(cursor)
	}
	return nil
}

// Request describes one page of a paginated find.
type Request struct {
	// Sort defines the total order over results. Must be non-empty; the
	// final field should be unique per document (see SortSpec).
	Sort SortSpec

	// Filter is the caller's base filter, applied in every mode and used
	// unmodified for the total count. May be nil.
	Filter bson.D

	// Limit is the page size. Must be positive.
	Limit int64

	// Mode selects offset or cursor paging; nil requests the first page.
	Mode PagingMode

	// WithTotal requests the total count of documents matching Filter.
	// When false the count query is skipped and TotalCount stays zero.
	WithTotal bool
}
