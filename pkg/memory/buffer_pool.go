// Package memory implements the buffer pool: the single point through
// which every page reaches a transaction, enforcing NO-STEAL/FORCE and
// page-level locking before handing a page back to a caller.
//
// Grounded on the donor's pkg/memory/store.go (PageStore: a capacity-
// bounded page cache, GetPage/InsertTuple/DeleteTuple/
// transactionComplete/flushPage), reworked around heap.GetPageFunc and
// catalog.Catalog instead of the donor's direct Database-facade
// coupling, and around lock.Manager instead of the donor's dependency-
// graph lock manager.
package memory

import (
	"fmt"
	"sync"

	"heapbase/pkg/catalog"
	"heapbase/pkg/concurrency/lock"
	"heapbase/pkg/dberrors"
	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/heap"
	"heapbase/pkg/storage/page"
	"heapbase/pkg/tuple"
)

// Permission is the access mode a caller requests a page under.
type Permission int

const (
	ReadOnly Permission = iota
	ReadWrite
)

// LogHook is the minimal recovery collaborator the buffer pool drives
// at flush time: record a page's before- and after-images, then force
// those records durable, both before the data write that makes the
// after-image durable. A nil hook is a legal no-op recorder.
type LogHook interface {
	LogWrite(tid primitives.TransactionID, before, after page.Page) error
	Force() error
}

// BufferPool is a fixed-capacity cache of pages shared by every active
// transaction, enforcing NO-STEAL eviction and FORCE-at-commit.
type BufferPool struct {
	capacity int
	cat      *catalog.Catalog
	locks    *lock.Manager
	log      LogHook

	mutex sync.Mutex
	// order records insertion order so eviction can scan "oldest
	// clean page first" — a simple, explainable policy, not an LRU.
	order []primitives.PageID
	pages map[primitives.PageID]page.Page
	// dirtiers records which transactions have dirtied a given page,
	// so TransactionComplete(tid, false) knows which cached pages must
	// be discarded and re-read from disk on abort.
	dirtiers map[primitives.PageID]map[primitives.TransactionID]bool
}

func New(capacity int, cat *catalog.Catalog, locks *lock.Manager, logHook LogHook) *BufferPool {
	return &BufferPool{
		capacity: capacity,
		cat:      cat,
		locks:    locks,
		log:      logHook,
		pages:    make(map[primitives.PageID]page.Page),
		dirtiers: make(map[primitives.PageID]map[primitives.TransactionID]bool),
	}
}

// GetPage is the sole path by which any code obtains a page: it
// acquires the appropriate lock first, then serves the page from cache
// or reads it from disk through the table's HeapFile, evicting if the
// pool is at capacity.
func (bp *BufferPool) GetPage(tid primitives.TransactionID, pid primitives.PageID, perm Permission) (page.Page, error) {
	lockType := lock.Shared
	if perm == ReadWrite {
		lockType = lock.Exclusive
	}
	if err := bp.locks.Acquire(tid, pid, lockType); err != nil {
		return nil, err
	}

	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	if p, ok := bp.pages[pid]; ok {
		return p, nil
	}

	if len(bp.pages) >= bp.capacity {
		if err := bp.evictOneLocked(); err != nil {
			return nil, err
		}
	}

	file, err := bp.cat.GetDbFile(pid.TableID)
	if err != nil {
		return nil, err
	}
	p, err := file.ReadPage(pid)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.IoError, fmt.Sprintf("read page %s", pid), err)
	}
	bp.pages[pid] = p
	bp.order = append(bp.order, pid)
	return p, nil
}

// getPageFunc adapts GetPage to heap.GetPageFunc's signature, the
// threading point that lets storage/heap drive the buffer pool
// without importing it.
func (bp *BufferPool) getPageFunc(tid primitives.TransactionID, pid primitives.PageID, readWrite bool) (page.Page, error) {
	perm := ReadOnly
	if readWrite {
		perm = ReadWrite
	}
	return bp.GetPage(tid, pid, perm)
}

// GetPageFunc exposes the adapter for callers (operators, iterators)
// that need to hand it to a HeapFile.
func (bp *BufferPool) GetPageFunc() heap.GetPageFunc { return bp.getPageFunc }

// evictOneLocked evicts the oldest clean page in insertion order.
// NO-STEAL forbids evicting a dirty page outright, so a pool entirely
// full of dirty pages reports CacheFull rather than forcing one out.
// bp.mutex must already be held.
func (bp *BufferPool) evictOneLocked() error {
	for i, pid := range bp.order {
		p, ok := bp.pages[pid]
		if !ok {
			continue
		}
		if _, dirty := p.IsDirty(); dirty {
			continue
		}
		delete(bp.pages, pid)
		bp.order = append(bp.order[:i], bp.order[i+1:]...)
		return nil
	}
	return dberrors.New(dberrors.CacheFull, "buffer pool is full of dirty pages")
}

// InsertTuple inserts t into table tableID's file, marking every
// touched page dirty for tid.
func (bp *BufferPool) InsertTuple(tid primitives.TransactionID, tableID primitives.TableID, t *tuple.Tuple) error {
	file, err := bp.cat.GetDbFile(tableID)
	if err != nil {
		return err
	}
	hf, ok := file.(*heap.HeapFile)
	if !ok {
		return dberrors.New(dberrors.Unsupported, "buffer pool: only heap files support insert")
	}
	dirtied, err := hf.InsertTuple(tid, t, bp.getPageFunc)
	if err != nil {
		return err
	}
	bp.markDirty(tid, dirtied...)
	return nil
}

// DeleteTuple deletes t from the table its RecordID names, marking the
// touched page dirty for tid.
func (bp *BufferPool) DeleteTuple(tid primitives.TransactionID, tableID primitives.TableID, t *tuple.Tuple) error {
	file, err := bp.cat.GetDbFile(tableID)
	if err != nil {
		return err
	}
	hf, ok := file.(*heap.HeapFile)
	if !ok {
		return dberrors.New(dberrors.Unsupported, "buffer pool: only heap files support delete")
	}
	p, err := hf.DeleteTuple(tid, t, bp.getPageFunc)
	if err != nil {
		return err
	}
	bp.markDirty(tid, p)
	return nil
}

func (bp *BufferPool) markDirty(tid primitives.TransactionID, pages ...page.Page) {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	for _, p := range pages {
		p.MarkDirty(true, tid)
		pid := p.ID()
		tids, ok := bp.dirtiers[pid]
		if !ok {
			tids = make(map[primitives.TransactionID]bool)
			bp.dirtiers[pid] = tids
		}
		tids[tid] = true
	}
}

// TransactionComplete ends tid's involvement with the buffer pool: on
// commit, flush every page tid dirtied and re-snapshot its
// before-image; on abort, discard the
// cached copy of every page tid dirtied so the next GetPage re-reads
// the clean on-disk version. Either way, every lock tid holds is
// released.
func (bp *BufferPool) TransactionComplete(tid primitives.TransactionID, commit bool) error {
	bp.mutex.Lock()
	var toFlush []primitives.PageID
	var toDiscard []primitives.PageID
	for pid, tids := range bp.dirtiers {
		if !tids[tid] {
			continue
		}
		if commit {
			toFlush = append(toFlush, pid)
		} else {
			toDiscard = append(toDiscard, pid)
		}
		delete(tids, tid)
	}
	bp.mutex.Unlock()

	if commit {
		for _, pid := range toFlush {
			if err := bp.FlushPage(pid); err != nil {
				return err
			}
			bp.mutex.Lock()
			if p, ok := bp.pages[pid]; ok {
				p.SetBeforeImage()
			}
			bp.mutex.Unlock()
		}
	} else {
		bp.mutex.Lock()
		for _, pid := range toDiscard {
			delete(bp.pages, pid)
			for i, o := range bp.order {
				if o == pid {
					bp.order = append(bp.order[:i], bp.order[i+1:]...)
					break
				}
			}
		}
		bp.mutex.Unlock()
	}

	bp.locks.UnlockAll(tid)
	return nil
}

// FlushPage writes a single dirty page to disk, driving the log hook
// first so a crash between the log write and the data write still
// leaves a recoverable before-image on record.
func (bp *BufferPool) FlushPage(pid primitives.PageID) error {
	bp.mutex.Lock()
	p, ok := bp.pages[pid]
	bp.mutex.Unlock()
	if !ok {
		return nil
	}

	tid, dirty := p.IsDirty()
	if !dirty {
		return nil
	}

	if bp.log != nil {
		if err := bp.log.LogWrite(tid, p.BeforeImage(), p); err != nil {
			return dberrors.Wrap(dberrors.IoError, "log write before flush", err)
		}
		if err := bp.log.Force(); err != nil {
			return dberrors.Wrap(dberrors.IoError, "force log before flush", err)
		}
	}

	file, err := bp.cat.GetDbFile(pid.TableID)
	if err != nil {
		return err
	}
	if err := file.WritePage(p); err != nil {
		return dberrors.Wrap(dberrors.IoError, fmt.Sprintf("flush page %s", pid), err)
	}
	p.MarkDirty(false, tid)
	return nil
}

// CacheEntry describes one cached page for introspection tools
// (pkg/inspector): its identity, dirty state, and dirtying transaction
// if any.
type CacheEntry struct {
	PageID  primitives.PageID
	Dirty   bool
	DirtyBy primitives.TransactionID
}

// Snapshot returns every cached page in insertion order, the same
// order eviction scans. It takes the pool mutex only for the duration
// of the copy, so it is safe to call from a concurrent observer (e.g.
// the inspector's refresh tick) without blocking page traffic for long.
func (bp *BufferPool) Snapshot() []CacheEntry {
	bp.mutex.Lock()
	defer bp.mutex.Unlock()

	out := make([]CacheEntry, 0, len(bp.order))
	for _, pid := range bp.order {
		p, ok := bp.pages[pid]
		if !ok {
			continue
		}
		tid, dirty := p.IsDirty()
		out = append(out, CacheEntry{PageID: pid, Dirty: dirty, DirtyBy: tid})
	}
	return out
}

// Capacity returns the pool's configured page-cache capacity.
func (bp *BufferPool) Capacity() int { return bp.capacity }

// Locks exposes the pool's lock manager for introspection tools
// (pkg/inspector) that need to render held-lock state alongside the
// page cache. Nothing outside this package and its observers should
// call Acquire/UnlockAll directly on it — GetPage/TransactionComplete
// already sequence those correctly.
func (bp *BufferPool) Locks() *lock.Manager { return bp.locks }

// FlushAllPages flushes every dirty page currently cached, regardless
// of which transaction dirtied it. Intended for shutdown/checkpoint
// paths, not transaction commit (which flushes only its own pages).
func (bp *BufferPool) FlushAllPages() error {
	bp.mutex.Lock()
	pids := make([]primitives.PageID, 0, len(bp.pages))
	for pid := range bp.pages {
		pids = append(pids, pid)
	}
	bp.mutex.Unlock()

	for _, pid := range pids {
		if err := bp.FlushPage(pid); err != nil {
			return err
		}
	}
	return nil
}
