package heap

import (
	"errors"
	"fmt"
	"io"

	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/page"
	"heapbase/pkg/tuple"
)

// HeapFile is a DbFile backed by a flat file of fixed-size pages.
// Grounded on the donor's pkg/storage/heap/file.go: ReadPage's
// just-past-end-of-file exception and WritePage's page-number
// validation are carried over unchanged; the underlying BaseFile is
// shared with every DbFile kind (there being only one kind here).
type HeapFile struct {
	base *page.BaseFile
	td   *tuple.TupleDescription
}

func NewHeapFile(path string, td *tuple.TupleDescription) (*HeapFile, error) {
	base, err := page.OpenBaseFile(path)
	if err != nil {
		return nil, err
	}
	return &HeapFile{base: base, td: td}, nil
}

func (hf *HeapFile) ID() primitives.TableID { return hf.base.ID() }

func (hf *HeapFile) TupleDesc() *tuple.TupleDescription { return hf.td }

func (hf *HeapFile) NumPages() (primitives.PageNumber, error) { return hf.base.NumPages() }

func (hf *HeapFile) Close() error { return hf.base.Close() }

// ReadPage reads pid's page from disk. Reading exactly the page at
// NumPages (one past the last page written) returns a fresh empty page
// instead of failing — HeapFile.InsertTuple relies on this to grow the
// file transparently on first write.
func (hf *HeapFile) ReadPage(pid primitives.PageID) (page.Page, error) {
	if pid.TableID != hf.ID() {
		return nil, fmt.Errorf("heap: page %s does not belong to this file", pid)
	}

	data, err := hf.base.ReadPageData(pid.PageNumber)
	if err != nil {
		if errors.Is(err, io.EOF) {
			numPages, nerr := hf.NumPages()
			if nerr == nil && pid.PageNumber == numPages {
				return NewEmptyHeapPage(pid, hf.td), nil
			}
		}
		return nil, fmt.Errorf("heap: read page %d: %w", pid.PageNumber, err)
	}
	return NewHeapPage(pid, data, hf.td)
}

func (hf *HeapFile) WritePage(p page.Page) error {
	return hf.base.WritePageData(p.ID().PageNumber, p.Data())
}

// Iterator returns a lazy, page-by-page tuple sequence under tid,
// acquiring each page with READ_ONLY through getPage.
func (hf *HeapFile) Iterator(tid primitives.TransactionID, getPage GetPageFunc) *FileIterator {
	return &FileIterator{file: hf, tid: tid, getPage: getPage}
}

// GetPageFunc is the buffer pool's getPage, threaded in rather than
// imported directly to avoid a storage/heap <-> memory import cycle
// (the buffer pool itself depends on heap.HeapFile to read pages on a
// cache miss).
type GetPageFunc func(tid primitives.TransactionID, pid primitives.PageID, readWrite bool) (page.Page, error)
