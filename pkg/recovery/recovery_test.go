package recovery

import (
	"os"
	"path/filepath"
	"testing"

	"heapbase/pkg/concurrency/transaction"
	"heapbase/pkg/storage/heap"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

func testPages(t *testing.T) (heap.PageID, *heap.HeapPage, *heap.HeapPage) {
	t.Helper()
	td, err := tuple.New([]types.Type{types.IntType}, []string{"n"})
	if err != nil {
		t.Fatalf("tuple.New: %v", err)
	}
	pid := heap.NewPageID(1, 0)
	before := heap.NewEmptyHeapPage(pid, td)

	after := heap.NewEmptyHeapPage(pid, td)
	row := tuple.NewTuple(td)
	_ = row.SetField(0, types.NewIntField(1))
	if err := after.InsertTuple(row); err != nil {
		t.Fatalf("InsertTuple: %v", err)
	}
	return pid, before, after
}

func TestLogWriteAppendsAndGrowsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()

	_, before, after := testPages(t)
	tid := transaction.New()

	if err := log.LogWrite(tid, before, after); err != nil {
		t.Fatalf("LogWrite: %v", err)
	}
	if err := log.Force(); err != nil {
		t.Fatalf("Force: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("log file should be non-empty after a LogWrite + Force")
	}
}

func TestLogWriteAppendsEachRecordSequentially(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()

	_, before, after := testPages(t)
	tid := transaction.New()

	if err := log.LogWrite(tid, before, after); err != nil {
		t.Fatalf("first LogWrite: %v", err)
	}
	sizeAfterFirst, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if err := log.LogWrite(tid, before, after); err != nil {
		t.Fatalf("second LogWrite: %v", err)
	}
	sizeAfterSecond, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}

	if sizeAfterSecond.Size() <= sizeAfterFirst.Size() {
		t.Error("a second LogWrite should grow the file further")
	}
}

func TestOpenReopensExistingLogWithoutTruncating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, before, after := testPages(t)
	if err := log.LogWrite(transaction.New(), before, after); err != nil {
		t.Fatalf("LogWrite: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("reopening should preserve previously written records (append, not truncate)")
	}
}
