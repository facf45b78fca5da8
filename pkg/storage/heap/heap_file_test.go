package heap

import (
	"path/filepath"
	"testing"

	"heapbase/pkg/concurrency/transaction"
	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/page"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// writeThroughGetPage is a minimal stand-in for the buffer pool's
// getPage: it reads through to the file and, since the test never
// reuses a page object across calls, writes straight back so the
// caller's mutation is visible to the next ReadPage.
func writeThroughGetPage(hf *HeapFile) GetPageFunc {
	return func(tid primitives.TransactionID, pid primitives.PageID, readWrite bool) (page.Page, error) {
		return hf.ReadPage(pid)
	}
}

func newTestHeapFile(t *testing.T) (*HeapFile, *tuple.TupleDescription) {
	t.Helper()
	td, err := tuple.New([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	if err != nil {
		t.Fatalf("tuple.New: %v", err)
	}
	path := filepath.Join(t.TempDir(), "table.dat")
	hf, err := NewHeapFile(path, td)
	if err != nil {
		t.Fatalf("NewHeapFile: %v", err)
	}
	return hf, td
}

func TestHeapFileInsertGrowsFileWhenFull(t *testing.T) {
	hf, td := newTestHeapFile(t)
	getPage := writeThroughGetPage(hf)
	tid := transaction.New()

	n := NumSlots(int(td.Size()))

	for i := 0; i < n; i++ {
		tup := tuple.NewTuple(td)
		_ = tup.SetField(0, types.NewIntField(int32(i)))
		_ = tup.SetField(1, types.NewStringField("row"))
		dirtied, err := hf.InsertTuple(tid, tup, getPage)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		for _, p := range dirtied {
			if err := hf.WritePage(p); err != nil {
				t.Fatalf("write page: %v", err)
			}
		}
	}

	numPages, err := hf.NumPages()
	if err != nil {
		t.Fatalf("NumPages: %v", err)
	}
	if numPages != 1 {
		t.Fatalf("after filling one page's worth of tuples, NumPages = %d, want 1", numPages)
	}

	overflow := tuple.NewTuple(td)
	_ = overflow.SetField(0, types.NewIntField(int32(n)))
	_ = overflow.SetField(1, types.NewStringField("overflow"))
	dirtied, err := hf.InsertTuple(tid, overflow, getPage)
	if err != nil {
		t.Fatalf("overflow insert: %v", err)
	}
	for _, p := range dirtied {
		if err := hf.WritePage(p); err != nil {
			t.Fatalf("write page: %v", err)
		}
	}

	numPages, err = hf.NumPages()
	if err != nil {
		t.Fatalf("NumPages: %v", err)
	}
	if numPages != 2 {
		t.Fatalf("after an insert past capacity, NumPages = %d, want 2 (file should grow)", numPages)
	}
}

func TestHeapFileIteratorStreamsAllTuplesInPageOrder(t *testing.T) {
	hf, td := newTestHeapFile(t)
	getPage := writeThroughGetPage(hf)
	tid := transaction.New()

	n := NumSlots(int(td.Size()))
	total := n + 3 // force the file to grow to a second page

	for i := 0; i < total; i++ {
		tup := tuple.NewTuple(td)
		_ = tup.SetField(0, types.NewIntField(int32(i)))
		_ = tup.SetField(1, types.NewStringField("row"))
		dirtied, err := hf.InsertTuple(tid, tup, getPage)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		for _, p := range dirtied {
			if err := hf.WritePage(p); err != nil {
				t.Fatalf("write page: %v", err)
			}
		}
	}

	it := hf.Iterator(tid, getPage)
	if err := it.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer it.Close()

	seen := 0
	for {
		hasNext, err := it.HasNext()
		if err != nil {
			t.Fatalf("HasNext: %v", err)
		}
		if !hasNext {
			break
		}
		if _, err := it.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
		seen++
	}
	if seen != total {
		t.Errorf("iterator produced %d tuples, want %d", seen, total)
	}
}

func TestHeapFileReadPagePastEndReturnsEmptyPage(t *testing.T) {
	hf, _ := newTestHeapFile(t)
	pid := NewPageID(hf.ID(), 0)

	p, err := hf.ReadPage(pid)
	if err != nil {
		t.Fatalf("ReadPage on an unwritten page: %v", err)
	}
	hp, ok := p.(*HeapPage)
	if !ok {
		t.Fatalf("ReadPage did not return a *HeapPage")
	}
	if len(hp.Tuples()) != 0 {
		t.Errorf("fresh page has %d tuples, want 0", len(hp.Tuples()))
	}
}

func TestHeapFileDeleteTuple(t *testing.T) {
	hf, td := newTestHeapFile(t)
	getPage := writeThroughGetPage(hf)
	tid := transaction.New()

	tup := tuple.NewTuple(td)
	_ = tup.SetField(0, types.NewIntField(1))
	_ = tup.SetField(1, types.NewStringField("gone"))
	dirtied, err := hf.InsertTuple(tid, tup, getPage)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	for _, p := range dirtied {
		if err := hf.WritePage(p); err != nil {
			t.Fatalf("write page: %v", err)
		}
	}

	p, err := hf.DeleteTuple(tid, tup, getPage)
	if err != nil {
		t.Fatalf("DeleteTuple: %v", err)
	}
	if err := hf.WritePage(p); err != nil {
		t.Fatalf("write page: %v", err)
	}

	reread, err := hf.ReadPage(tup.RecordID.PageID)
	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if len(reread.(*HeapPage).Tuples()) != 0 {
		t.Errorf("page still has tuples after delete")
	}
}
