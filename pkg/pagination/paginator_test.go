package pagination

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// fakeExecutor evaluates translated queries against an in-memory document
// set, mirroring what the MongoDB server would do with the same filter,
// sort, skip and limit.
type fakeExecutor struct {
	docs     []bson.D
	findErr  error
	countErr error
	counts   int
}

func (f *fakeExecutor) Find(_ context.Context, query Query) ([]bson.Raw, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}

	var matched []bson.D
	for _, doc := range f.docs {
		if matchDoc(doc, query.Filter) {
			matched = append(matched, doc)
		}
	}
	sortDocs(matched, query.Sort)

	if query.Skip > 0 {
		if query.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[query.Skip:]
		}
	}
	if int64(len(matched)) > query.Limit {
		matched = matched[:query.Limit]
	}

	rows := make([]bson.Raw, len(matched))
	for i, doc := range matched {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		rows[i] = bson.Raw(raw)
	}
	return rows, nil
}

func (f *fakeExecutor) Count(_ context.Context, filter bson.D) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	f.counts++
	var n int64
	for _, doc := range f.docs {
		if matchDoc(doc, filter) {
			n++
		}
	}
	return n, nil
}

func matchDoc(doc bson.D, filter bson.D) bool {
	for _, cond := range filter {
		switch cond.Key {
		case "$and":
			for _, sub := range cond.Value.(bson.A) {
				if !matchDoc(doc, sub.(bson.D)) {
					return false
				}
			}
		case "$or":
			any := false
			for _, sub := range cond.Value.(bson.A) {
				if matchDoc(doc, sub.(bson.D)) {
					any = true
					break
				}
			}
			if !any {
				return false
			}
		default:
			val := lookupField(doc, cond.Key)
			if ops, ok := cond.Value.(bson.D); ok && len(ops) > 0 && strings.HasPrefix(ops[0].Key, "$") {
				for _, op := range ops {
					cmp := compareValues(val, op.Value)
					switch op.Key {
					case "$gt":
						if cmp <= 0 {
							return false
						}
					case "$lt":
						if cmp >= 0 {
							return false
						}
					default:
						panic(fmt.Sprintf("fake executor: unsupported operator %s", op.Key))
					}
				}
			} else if compareValues(val, cond.Value) != 0 {
				return false
			}
		}
	}
	return true
}

func lookupField(doc bson.D, field string) interface{} {
	for _, e := range doc {
		if e.Key == field {
			return e.Value
		}
	}
	return nil
}

// compareValues imposes the ordering the tests need: numbers and strings.
func compareValues(a, b interface{}) int {
	if na, aok := toFloat(a); aok {
		nb, bok := toFloat(b)
		if !bok {
			panic(fmt.Sprintf("fake executor: comparing %T with %T", a, b))
		}
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if !aok || !bok {
		panic(fmt.Sprintf("fake executor: unsupported comparison %T vs %T", a, b))
	}
	return strings.Compare(sa, sb)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func sortDocs(docs []bson.D, sortDoc bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, field := range sortDoc {
			cmp := compareValues(lookupField(docs[i], field.Key), lookupField(docs[j], field.Key))
			if cmp == 0 {
				continue
			}
			if field.Value.(int32) < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func scoreDoc(score, id int32) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "score", Value: score}}
}

func scoreExecutor() *fakeExecutor {
	return &fakeExecutor{docs: []bson.D{
		scoreDoc(5, 1),
		scoreDoc(5, 2),
		scoreDoc(3, 1000),
	}}
}

type scored struct {
	ID    int32 `bson:"_id"`
	Score int32 `bson:"score"`
}

func TestPaginator_TieBreakOrdering(t *testing.T) {
	paginator := New[scored](scoreExecutor())
	cursor := mustEncode(t, testSpec, SortKey{{Key: "score", Value: int32(5)}, {Key: "_id", Value: int32(1)}})

	result, err := paginator.Paginate(context.Background(), Request{
		Sort:  testSpec,
		Limit: 10,
		Mode:  Forward(cursor),
	})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	want := []scored{{ID: 2, Score: 5}, {ID: 1000, Score: 3}}
	if !reflect.DeepEqual(result.Items, want) {
		t.Fatalf("items = %v, want %v", result.Items, want)
	}
}

func fiveFruits() *fakeExecutor {
	return &fakeExecutor{docs: []bson.D{
		{{Key: "_id", Value: int32(1)}, {Key: "name", Value: "Apple"}, {Key: "how_many", Value: int32(5)}},
		{{Key: "_id", Value: int32(2)}, {Key: "name", Value: "Bananas"}, {Key: "how_many", Value: int32(8)}},
		{{Key: "_id", Value: int32(3)}, {Key: "name", Value: "Blueberry"}, {Key: "how_many", Value: int32(25)}},
		{{Key: "_id", Value: int32(4)}, {Key: "name", Value: "Grapes"}, {Key: "how_many", Value: int32(12)}},
		{{Key: "_id", Value: int32(5)}, {Key: "name", Value: "Orange"}, {Key: "how_many", Value: int32(3)}},
	}}
}

func names(items []fruit) []string {
	out := make([]string, len(items))
	for i, f := range items {
		out[i] = f.Name
	}
	return out
}

func TestPaginator_WalkForward(t *testing.T) {
	paginator := New[fruit](fiveFruits())
	ctx := context.Background()

	first, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 2, WithTotal: true})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if got := names(first.Items); !reflect.DeepEqual(got, []string{"Apple", "Bananas"}) {
		t.Fatalf("first page = %v", got)
	}
	if !first.PageInfo.HasNextPage || first.PageInfo.HasPreviousPage {
		t.Fatalf("first page info = %+v", first.PageInfo)
	}
	if first.TotalCount != 5 {
		t.Fatalf("total = %d, want 5", first.TotalCount)
	}

	second, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 2, Mode: Forward(first.PageInfo.NextCursor)})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if got := names(second.Items); !reflect.DeepEqual(got, []string{"Blueberry", "Grapes"}) {
		t.Fatalf("second page = %v", got)
	}
	if !second.PageInfo.HasNextPage || !second.PageInfo.HasPreviousPage {
		t.Fatalf("second page info = %+v", second.PageInfo)
	}

	last, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 2, Mode: Forward(second.PageInfo.NextCursor)})
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if got := names(last.Items); !reflect.DeepEqual(got, []string{"Orange"}) {
		t.Fatalf("last page = %v", got)
	}
	if last.PageInfo.HasNextPage {
		t.Fatal("last page must not have a next page")
	}
}

func TestPaginator_BackwardSymmetry(t *testing.T) {
	paginator := New[fruit](fiveFruits())
	ctx := context.Background()

	first, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	second, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 2, Mode: Forward(first.PageInfo.NextCursor)})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}

	// Going back from the second page's start must reproduce the first
	// page, in forward order.
	back, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 2, Mode: Backward(second.PageInfo.StartCursor)})
	if err != nil {
		t.Fatalf("backward page: %v", err)
	}
	if got := names(back.Items); !reflect.DeepEqual(got, names(first.Items)) {
		t.Fatalf("backward page = %v, want %v", got, names(first.Items))
	}
	if !back.PageInfo.HasNextPage {
		t.Fatal("backward page must report a next page")
	}
	if back.PageInfo.HasPreviousPage {
		t.Fatal("nothing precedes the first page")
	}
}

func TestPaginator_OffsetMode(t *testing.T) {
	paginator := New[fruit](fiveFruits())

	result, err := paginator.Paginate(context.Background(), Request{
		Sort:  fruitSpec,
		Limit: 2,
		Mode:  Offset(2),
	})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if got := names(result.Items); !reflect.DeepEqual(got, []string{"Blueberry", "Grapes"}) {
		t.Fatalf("offset page = %v", got)
	}
	if !result.PageInfo.HasPreviousPage || !result.PageInfo.HasNextPage {
		t.Fatalf("offset page info = %+v", result.PageInfo)
	}
}

func TestPaginator_TotalCountStable(t *testing.T) {
	exec := fiveFruits()
	paginator := New[fruit](exec)
	ctx := context.Background()
	filter := bson.D{{Key: "how_many", Value: bson.D{{Key: "$gt", Value: int32(4)}}}}

	first, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Filter: filter, Limit: 2, WithTotal: true})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	next, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Filter: filter, Limit: 2, WithTotal: true, Mode: Forward(first.PageInfo.NextCursor)})
	if err != nil {
		t.Fatalf("next page: %v", err)
	}
	offset, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Filter: filter, Limit: 2, WithTotal: true, Mode: Offset(1)})
	if err != nil {
		t.Fatalf("offset page: %v", err)
	}

	if first.TotalCount != 4 || next.TotalCount != 4 || offset.TotalCount != 4 {
		t.Fatalf("totals = %d/%d/%d, want 4 throughout",
			first.TotalCount, next.TotalCount, offset.TotalCount)
	}
}

func TestPaginator_SkipsCountUnlessRequested(t *testing.T) {
	exec := fiveFruits()
	paginator := New[fruit](exec)

	if _, err := paginator.Paginate(context.Background(), Request{Sort: fruitSpec, Limit: 2}); err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if exec.counts != 0 {
		t.Fatalf("count executed %d times without WithTotal", exec.counts)
	}
}

func TestPaginator_EdgeCursorsResume(t *testing.T) {
	paginator := New[fruit](fiveFruits())
	ctx := context.Background()

	all, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 5})
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}

	for i, edge := range all.Edges {
		next, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 1, Mode: Forward(edge.Cursor)})
		if err != nil {
			t.Fatalf("resume from edge %d: %v", i, err)
		}
		if i == len(all.Edges)-1 {
			if len(next.Items) != 0 {
				t.Fatalf("resume past the end returned %v", names(next.Items))
			}
			continue
		}
		if len(next.Items) != 1 || next.Items[0].Name != all.Items[i+1].Name {
			t.Fatalf("resume from edge %d = %v, want %q", i, names(next.Items), all.Items[i+1].Name)
		}
	}
}

func TestPaginator_ExecutionErrors(t *testing.T) {
	driverErr := errors.New("connection reset")

	t.Run("find", func(t *testing.T) {
		paginator := New[fruit](&fakeExecutor{findErr: driverErr})
		_, err := paginator.Paginate(context.Background(), Request{Sort: fruitSpec, Limit: 2})
		var exec *ExecutionError
		if !errors.As(err, &exec) || exec.Op != "find" {
			t.Fatalf("got %v, want ExecutionError{Op: find}", err)
		}
		if !errors.Is(err, driverErr) {
			t.Fatal("underlying driver error must be preserved")
		}
	})

	t.Run("count", func(t *testing.T) {
		paginator := New[fruit](&fakeExecutor{docs: fiveFruits().docs, countErr: driverErr})
		_, err := paginator.Paginate(context.Background(), Request{Sort: fruitSpec, Limit: 2, WithTotal: true})
		var exec *ExecutionError
		if !errors.As(err, &exec) || exec.Op != "count" {
			t.Fatalf("got %v, want ExecutionError{Op: count}", err)
		}
	})
}

func TestPaginator_InvalidInputs(t *testing.T) {
	paginator := New[fruit](fiveFruits())
	ctx := context.Background()

	if _, err := paginator.Paginate(ctx, Request{Sort: SortSpec{}, Limit: 2}); !errors.Is(err, ErrInvalidSortSpec) {
		t.Fatalf("got %v, want ErrInvalidSortSpec", err)
	}
	if _, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 0}); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("got %v, want ErrInvalidLimit", err)
	}
	_, err := paginator.Paginate(ctx, Request{Sort: fruitSpec, Limit: 2, Mode: Forward("broken")})
	var invalid *InvalidCursorError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidCursorError", err)
	}
}
