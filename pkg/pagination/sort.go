package pagination

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// SortOrder defines the direction of sorting for a single field.
type SortOrder string

const (
	// SortAsc sorts in ascending order
	SortAsc SortOrder = "asc"
	// SortDesc sorts in descending order
	SortDesc SortOrder = "desc"
)

// direction returns the MongoDB sort direction value for the order.
func (o SortOrder) direction() int32 {
	if o == SortDesc {
		return -1
	}
	return 1
}

// reversed flips the order.
func (o SortOrder) reversed() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// SortField pairs a document field with a sort order.
type SortField struct {
	Field string
	Order SortOrder
}

// SortSpec is an ordered list of sort fields defining a total order over
// results. Field order is significant: earlier fields take precedence,
// later fields break ties.
//
// Cursors are only stable when the final field is unique per document
// (typically "_id"). With a non-unique trailing field, documents sharing
// the same sort-key tuple may be skipped or repeated across pages; the
// library does not detect or repair this.
type SortSpec []SortField

// Validate reports whether the spec can be used for pagination.
func (s SortSpec) Validate() error {
	if len(s) == 0 {
		return ErrInvalidSortSpec
	}
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if f.Field == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidSortSpec)
		}
		if _, ok := seen[f.Field]; ok {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSortSpec, f.Field)
		}
		seen[f.Field] = struct{}{}
	}
	return nil
}

// WithIDTieBreak returns a copy of the spec with a descending "_id" field
// appended unless the spec already sorts on "_id". Use it when the caller's
// sort has no unique trailing field.
func (s SortSpec) WithIDTieBreak() SortSpec {
	for _, f := range s {
		if f.Field == "_id" {
			return s
		}
	}
	out := make(SortSpec, len(s), len(s)+1)
	copy(out, s)
	return append(out, SortField{Field: "_id", Order: SortDesc})
}

// reversed returns the spec with every field's order flipped. Used when a
// backward query walks the index in the opposite direction.
func (s SortSpec) reversed() SortSpec {
	out := make(SortSpec, len(s))
	for i, f := range s {
		out[i] = SortField{Field: f.Field, Order: f.Order.reversed()}
	}
	return out
}

// toBSON renders the spec as a MongoDB sort document.
func (s SortSpec) toBSON() bson.D {
	sort := make(bson.D, len(s))
	for i, f := range s {
		sort[i] = bson.E{Key: f.Field, Value: f.Order.direction()}
	}
	return sort
}
