package pagination

import "go.mongodb.org/mongo-driver/bson"

// Query is the concrete instruction set handed to the executor: a filter,
// a sort document, and the fetch window. Limit always includes one row
// more than the requested page size; the assembler uses the extra row to
// decide whether a further page exists without a second round trip.
type Query struct {
	Filter bson.D
	Sort   bson.D
	Limit  int64
	Skip   int64
}

// Translate turns a request into a Query. Cursor tokens are decoded here;
// a token that does not match the request's sort spec fails with
// InvalidCursorError before anything is sent to the database.
func Translate(req Request) (Query, error) {
	if err := req.Sort.Validate(); err != nil {
		return Query{}, err
	}
	if req.Limit <= 0 {
		return Query{}, ErrInvalidLimit
	}

	switch mode := req.Mode.(type) {
	case nil:
		// First page: base filter only.
		return Query{
			Filter: req.Filter,
			Sort:   req.Sort.toBSON(),
			Limit:  req.Limit + 1,
		}, nil
	case offsetMode:
		return Query{
			Filter: req.Filter,
			Sort:   req.Sort.toBSON(),
			Limit:  req.Limit + 1,
			Skip:   mode.skip,
		}, nil
	case cursorMode:
		codec, err := NewCodec(req.Sort)
		if err != nil {
			return Query{}, err
		}
		key, err := codec.Decode(mode.token)
		if err != nil {
			return Query{}, err
		}

		sort := req.Sort
		if mode.backward {
			// Walk the index in the opposite direction; the assembler
			// restores sort-spec order before returning the page.
			sort = sort.reversed()
		}

		return Query{
			Filter: combineFilters(req.Filter, resumeFilter(key, sort)),
			Sort:   sort.toBSON(),
			Limit:  req.Limit + 1,
		}, nil
	default:
		return Query{}, ErrInvalidSortSpec
	}
}

// resumeFilter builds the tie-break filter that resumes strictly after the
// sort key, in the order given by sort (already reversed for backward
// queries). For fields f1..fn it expands tuple comparison into
//
//	{f1 op v1} OR {f1: v1, f2 op v2} OR ... OR {f1: v1, .., fn op vn}
//
// which matches exactly the documents that follow the key in
// lexicographic order. Filtering each field independently would be wrong:
// a document tying on f1 but satisfying f2's comparison must be included.
func resumeFilter(key SortKey, sort SortSpec) bson.D {
	if len(sort) == 1 {
		return bson.D{{Key: sort[0].Field, Value: bson.D{{Key: comparisonOp(sort[0].Order), Value: key[0].Value}}}}
	}

	clauses := make(bson.A, len(sort))
	for i, f := range sort {
		clause := make(bson.D, 0, i+1)
		for j := 0; j < i; j++ {
			clause = append(clause, bson.E{Key: sort[j].Field, Value: key[j].Value})
		}
		clause = append(clause, bson.E{Key: f.Field, Value: bson.D{{Key: comparisonOp(f.Order), Value: key[i].Value}}})
		clauses[i] = clause
	}
	return bson.D{{Key: "$or", Value: clauses}}
}

// comparisonOp maps the effective sort order of a field to the operator
// that moves past the cursor value in that direction.
func comparisonOp(order SortOrder) string {
	if order == SortDesc {
		return "$lt"
	}
	return "$gt"
}

// combineFilters conjoins the caller's base filter with the tie-break
// filter. The base filter is never mutated.
func combineFilters(base, resume bson.D) bson.D {
	if len(base) == 0 {
		return resume
	}
	return bson.D{{Key: "$and", Value: bson.A{base, resume}}}
}
