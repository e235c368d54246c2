// Package pagination implements cursor-based pagination for MongoDB
// queries, with classic offset paging as a fallback mode.
//
// A cursor is an opaque, URL-safe token derived from the sort-key values
// of an item. Resuming from a cursor translates into a tie-break filter
// that reproduces tuple comparison over the sort spec, so pages stay
// stable under inserts and deletes and never degrade with depth the way
// offset paging does.
//
// The engine is split along its seams: Codec maps sort keys to tokens,
// Translate turns a Request into the filter/sort/limit triple handed to
// an Executor, and Paginator runs the query and assembles the page of
// edges with its PageInfo. The extra row fetched beyond the page size is
// how has-next/has-previous is decided without a second round trip.
package pagination
