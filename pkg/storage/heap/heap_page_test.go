package heap

import (
	"testing"

	"heapbase/pkg/dberrors"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

func testTD(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.New([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	if err != nil {
		t.Fatalf("tuple.New: %v", err)
	}
	return td
}

func testTuple(t *testing.T, td *tuple.TupleDescription, id int32, name string) *tuple.Tuple {
	t.Helper()
	tup := tuple.NewTuple(td)
	if err := tup.SetField(0, types.NewIntField(id)); err != nil {
		t.Fatalf("SetField(0): %v", err)
	}
	if err := tup.SetField(1, types.NewStringField(name)); err != nil {
		t.Fatalf("SetField(1): %v", err)
	}
	return tup
}

func TestHeapPageSerializeRoundTrip(t *testing.T) {
	td := testTD(t)
	pid := NewPageID(1, 0)
	hp := NewEmptyHeapPage(pid, td)

	for i, name := range []string{"alice", "bob", "carol"} {
		if err := hp.InsertTuple(testTuple(t, td, int32(i), name)); err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
	}

	data := hp.Data()
	if len(data) != 4096 {
		t.Fatalf("serialized page is %d bytes, want 4096", len(data))
	}

	back, err := NewHeapPage(pid, data, td)
	if err != nil {
		t.Fatalf("NewHeapPage: %v", err)
	}

	if back.NumSlots() != hp.NumSlots() {
		t.Fatalf("round-tripped page has %d slots, want %d", back.NumSlots(), hp.NumSlots())
	}
	got := back.Tuples()
	if len(got) != 3 {
		t.Fatalf("round-tripped page has %d live tuples, want 3", len(got))
	}
	for i, tup := range got {
		f, _ := tup.Field(1)
		want := []string{"alice", "bob", "carol"}[i]
		if f.(*types.StringField).Value != want {
			t.Errorf("tuple %d name = %q, want %q", i, f.(*types.StringField).Value, want)
		}
	}
}

func TestHeapPageInsertDeleteRestoresBitmap(t *testing.T) {
	td := testTD(t)
	pid := NewPageID(1, 0)
	hp := NewEmptyHeapPage(pid, td)
	startEmpty := hp.NumEmptySlots()

	tup := testTuple(t, td, 1, "dana")
	if err := hp.InsertTuple(tup); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	if hp.NumEmptySlots() != startEmpty-1 {
		t.Fatalf("after insert: %d empty slots, want %d", hp.NumEmptySlots(), startEmpty-1)
	}
	if !hp.IsSlotUsed(tup.RecordID.SlotNum) {
		t.Fatal("inserted slot should be marked used")
	}

	if err := hp.DeleteTuple(tup); err != nil {
		t.Fatalf("DeleteTuple: %v", err)
	}
	if hp.NumEmptySlots() != startEmpty {
		t.Fatalf("after delete: %d empty slots, want %d (bitmap not restored)", hp.NumEmptySlots(), startEmpty)
	}
	if hp.IsSlotUsed(tup.RecordID.SlotNum) {
		t.Fatal("deleted slot should be marked unused")
	}
}

func TestHeapPageInsertFailsWhenFull(t *testing.T) {
	td := testTD(t)
	pid := NewPageID(1, 0)
	hp := NewEmptyHeapPage(pid, td)

	n := hp.NumSlots()
	for i := 0; i < n; i++ {
		if err := hp.InsertTuple(testTuple(t, td, int32(i), "x")); err != nil {
			t.Fatalf("InsertTuple %d: %v", i, err)
		}
	}

	err := hp.InsertTuple(testTuple(t, td, int32(n), "overflow"))
	if !dberrors.Is(err, dberrors.Full) {
		t.Errorf("InsertTuple on full page = %v, want dberrors.Full", err)
	}
}

func TestHeapPageInsertRejectsSchemaMismatch(t *testing.T) {
	td := testTD(t)
	otherTD, err := tuple.New([]types.Type{types.IntType}, []string{"n"})
	if err != nil {
		t.Fatalf("tuple.New: %v", err)
	}
	hp := NewEmptyHeapPage(NewPageID(1, 0), td)

	bad := tuple.NewTuple(otherTD)
	_ = bad.SetField(0, types.NewIntField(1))

	if err := hp.InsertTuple(bad); !dberrors.Is(err, dberrors.SchemaMismatch) {
		t.Errorf("InsertTuple with mismatched schema = %v, want dberrors.SchemaMismatch", err)
	}
}

func TestHeapPageDeleteMissingReturnsNotFound(t *testing.T) {
	td := testTD(t)
	hp := NewEmptyHeapPage(NewPageID(1, 0), td)
	ghost := testTuple(t, td, 99, "ghost")

	if err := hp.DeleteTuple(ghost); !dberrors.Is(err, dberrors.NotFound) {
		t.Errorf("DeleteTuple of absent tuple = %v, want dberrors.NotFound", err)
	}
}

func TestHeapPageBeforeImageUnaffectedByLaterMutation(t *testing.T) {
	td := testTD(t)
	hp := NewEmptyHeapPage(NewPageID(1, 0), td)
	tup := testTuple(t, td, 1, "before")
	if err := hp.InsertTuple(tup); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	hp.SetBeforeImage()

	tup2 := testTuple(t, td, 2, "after")
	if err := hp.InsertTuple(tup2); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}

	before := hp.BeforeImage()
	bhp, ok := before.(*HeapPage)
	if !ok {
		t.Fatalf("BeforeImage did not return a *HeapPage")
	}
	if len(bhp.Tuples()) != 1 {
		t.Errorf("before-image has %d tuples, want 1 (taken before second insert)", len(bhp.Tuples()))
	}
	if len(hp.Tuples()) != 2 {
		t.Errorf("live page has %d tuples, want 2", len(hp.Tuples()))
	}
}
