package heap

import (
	"fmt"

	"heapbase/pkg/primitives"
	"heapbase/pkg/tuple"
)

// FileIterator streams every tuple in a HeapFile in page order, page 0
// first. It requests each page READ_ONLY and advances to the next page
// only once the current page's tuples are exhausted.
//
// Grounded on the donor's pkg/execution/seqscan.go's use of a
// DbFileIterator and pkg/execution/iterator.go's lookahead-caching
// pattern, reworked to sit at the storage layer instead of the
// operator layer so both SeqScan and the buffer pool's own internals
// (e.g. flushAllPages style sweeps) can reuse it.
type FileIterator struct {
	file    *HeapFile
	tid     primitives.TransactionID
	getPage GetPageFunc

	pageNum    primitives.PageNumber
	numPages   primitives.PageNumber
	pageTuples []*tuple.Tuple
	cursor     int
	opened     bool
}

func (it *FileIterator) Open() error {
	numPages, err := it.file.NumPages()
	if err != nil {
		return err
	}
	it.numPages = numPages
	it.pageNum = 0
	it.cursor = 0
	it.pageTuples = nil
	it.opened = true
	return it.loadPage()
}

// loadPage fetches pageNum's tuples, skipping forward past any empty
// pages, leaving pageTuples nil once pageNum reaches numPages.
func (it *FileIterator) loadPage() error {
	for it.pageNum < it.numPages {
		pid := NewPageID(it.file.ID(), it.pageNum)
		p, err := it.getPage(it.tid, pid, false)
		if err != nil {
			return err
		}
		hp, ok := p.(*HeapPage)
		if !ok {
			return fmt.Errorf("heap: iterator got non-heap page %T", p)
		}
		it.pageTuples = hp.Tuples()
		it.cursor = 0
		if len(it.pageTuples) > 0 {
			return nil
		}
		it.pageNum++
	}
	it.pageTuples = nil
	return nil
}

func (it *FileIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("heap: iterator not opened")
	}
	for it.cursor >= len(it.pageTuples) {
		if it.pageNum >= it.numPages {
			return false, nil
		}
		it.pageNum++
		if err := it.loadPage(); err != nil {
			return false, err
		}
		if it.pageNum >= it.numPages && len(it.pageTuples) == 0 {
			return false, nil
		}
	}
	return it.cursor < len(it.pageTuples), nil
}

func (it *FileIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, fmt.Errorf("heap: iterator exhausted")
	}
	t := it.pageTuples[it.cursor]
	it.cursor++
	return t, nil
}

func (it *FileIterator) Rewind() error {
	return it.Open()
}

func (it *FileIterator) Close() error {
	it.opened = false
	it.pageTuples = nil
	return nil
}
