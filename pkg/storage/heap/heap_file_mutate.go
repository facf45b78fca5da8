package heap

import (
	"fmt"

	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/page"
	"heapbase/pkg/tuple"
)

// InsertTuple scans existing pages 0..numPages-1 under READ_WRITE,
// returning the first one that accepts t. If every existing page is
// full, the file grows by one page and t is inserted there. Returns a
// one-element slice holding the page t landed on (the newly allocated
// page if growth occurred); scanned-but-full pages are never dirtied
// and are not included.
func (hf *HeapFile) InsertTuple(tid primitives.TransactionID, t *tuple.Tuple, getPage GetPageFunc) ([]page.Page, error) {
	numPages, err := hf.NumPages()
	if err != nil {
		return nil, err
	}

	for pn := primitives.PageNumber(0); pn < numPages; pn++ {
		pid := NewPageID(hf.ID(), pn)
		p, err := getPage(tid, pid, true)
		if err != nil {
			return nil, err
		}
		hp := p.(*HeapPage)
		if hp.NumEmptySlots() == 0 {
			continue
		}
		if err := hp.InsertTuple(t); err != nil {
			return nil, err
		}
		return []page.Page{hp}, nil
	}

	// Every existing page is full (or there are none): grow the file.
	pid := NewPageID(hf.ID(), numPages)
	p, err := getPage(tid, pid, true)
	if err != nil {
		return nil, err
	}
	hp := p.(*HeapPage)
	if err := hp.InsertTuple(t); err != nil {
		return nil, err
	}
	return []page.Page{hp}, nil
}

// DeleteTuple acquires t's RecordID's page under READ_WRITE and
// deletes t from it.
func (hf *HeapFile) DeleteTuple(tid primitives.TransactionID, t *tuple.Tuple, getPage GetPageFunc) (page.Page, error) {
	if t.RecordID == nil {
		return nil, fmt.Errorf("heap: cannot delete a tuple with no RecordID")
	}

	p, err := getPage(tid, t.RecordID.PageID, true)
	if err != nil {
		return nil, err
	}
	hp := p.(*HeapPage)
	if err := hp.DeleteTuple(t); err != nil {
		return nil, err
	}
	return hp, nil
}
