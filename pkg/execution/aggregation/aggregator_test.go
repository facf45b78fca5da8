package aggregation

import (
	"testing"

	"heapbase/pkg/dberrors"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

func rowIntString(t *testing.T, td *tuple.TupleDescription, n int32, s string) *tuple.Tuple {
	t.Helper()
	tup := tuple.NewTuple(td)
	_ = tup.SetField(0, types.NewIntField(n))
	_ = tup.SetField(1, types.NewStringField(s))
	return tup
}

func testSchema(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.New([]types.Type{types.IntType, types.StringType}, []string{"score", "dept"})
	if err != nil {
		t.Fatalf("tuple.New: %v", err)
	}
	return td
}

func TestAggregatorGroupedAverageIsIntegerDivision(t *testing.T) {
	td := testSchema(t)
	agg := New(1, types.StringType, 0, Avg)

	rows := []struct {
		score int32
		dept  string
	}{
		{10, "eng"}, {11, "eng"}, {100, "sales"},
	}
	for _, r := range rows {
		if err := agg.Merge(rowIntString(t, td, r.score, r.dept)); err != nil {
			t.Fatalf("Merge: %v", err)
		}
	}

	results, rtd, err := agg.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d groups, want 2", len(results))
	}

	byDept := map[string]int32{}
	for _, row := range results {
		gf, _ := row.Field(0)
		af, _ := row.Field(1)
		byDept[gf.(*types.StringField).Value] = af.(*types.IntField).Value
	}
	if byDept["eng"] != 10 { // (10+11)/2 = 10, integer division
		t.Errorf("eng avg = %d, want 10", byDept["eng"])
	}
	if byDept["sales"] != 100 {
		t.Errorf("sales avg = %d, want 100", byDept["sales"])
	}

	name0, _ := rtd.FieldName(0)
	if name0 != "groupval" {
		t.Errorf("result schema's first column is %q, want \"groupval\"", name0)
	}
}

func TestAggregatorGroupKeyReparsedToOriginalIntType(t *testing.T) {
	td, err := tuple.New([]types.Type{types.IntType, types.IntType}, []string{"dept_id", "score"})
	if err != nil {
		t.Fatalf("tuple.New: %v", err)
	}
	agg := New(0, types.IntType, 1, Sum)

	mkRow := func(dept, score int32) *tuple.Tuple {
		tup := tuple.NewTuple(td)
		_ = tup.SetField(0, types.NewIntField(dept))
		_ = tup.SetField(1, types.NewIntField(score))
		return tup
	}
	_ = agg.Merge(mkRow(7, 3))
	_ = agg.Merge(mkRow(7, 4))

	results, _, err := agg.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d groups, want 1", len(results))
	}
	gf, err := results[0].Field(0)
	if err != nil {
		t.Fatalf("Field(0): %v", err)
	}
	intField, ok := gf.(*types.IntField)
	if !ok {
		t.Fatalf("group key field is %T, want *types.IntField", gf)
	}
	if intField.Value != 7 {
		t.Errorf("group key = %d, want 7", intField.Value)
	}
}

func TestAggregatorStringFieldOnlySupportsCount(t *testing.T) {
	td := testSchema(t)
	agg := New(NoGrouping, types.IntType, 1, Sum)

	err := agg.Merge(rowIntString(t, td, 1, "x"))
	if !dberrors.Is(err, dberrors.Unsupported) {
		t.Errorf("Sum over a string field = %v, want dberrors.Unsupported", err)
	}
}

func TestAggregatorCountOverStringField(t *testing.T) {
	td := testSchema(t)
	agg := New(NoGrouping, types.IntType, 1, Count)

	for i := 0; i < 3; i++ {
		if err := agg.Merge(rowIntString(t, td, int32(i), "x")); err != nil {
			t.Fatalf("Merge: %v", err)
		}
	}
	results, _, err := agg.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("ungrouped count should produce exactly one result row, got %d", len(results))
	}
	af, _ := results[0].Field(0)
	if af.(*types.IntField).Value != 3 {
		t.Errorf("count = %d, want 3", af.(*types.IntField).Value)
	}
}

func TestAggregatorMinMax(t *testing.T) {
	td := testSchema(t)
	values := []int32{5, -3, 12, 0}

	minAgg := New(NoGrouping, types.IntType, 0, Min)
	maxAgg := New(NoGrouping, types.IntType, 0, Max)
	for _, v := range values {
		row := rowIntString(t, td, v, "x")
		if err := minAgg.Merge(row); err != nil {
			t.Fatalf("Merge(min): %v", err)
		}
		if err := maxAgg.Merge(row); err != nil {
			t.Fatalf("Merge(max): %v", err)
		}
	}

	minResults, _, _ := minAgg.Results()
	maxResults, _, _ := maxAgg.Results()
	minF, _ := minResults[0].Field(0)
	maxF, _ := maxResults[0].Field(0)
	if minF.(*types.IntField).Value != -3 {
		t.Errorf("min = %d, want -3", minF.(*types.IntField).Value)
	}
	if maxF.(*types.IntField).Value != 12 {
		t.Errorf("max = %d, want 12", maxF.(*types.IntField).Value)
	}
}
