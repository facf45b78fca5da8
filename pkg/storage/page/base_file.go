package page

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sync"

	"heapbase/pkg/dberrors"
	"heapbase/pkg/primitives"
)

// BaseFile provides the common disk I/O every DbFile implementation
// needs: a thread-safe file handle, page counting, and page-granularity
// reads/writes/allocation. Grounded on the donor's
// pkg/storage/page/commons.go BaseFile, trimmed of the AllocateNewPage
// zero-fill comment noise but keeping its write-then-Sync durability
// policy and its "allocate by extending, then let the caller overwrite"
// protocol.
type BaseFile struct {
	mutex sync.RWMutex
	file  *os.File
	path  string
	id    primitives.TableID
}

// OpenBaseFile opens (creating if absent) the file at path and derives
// a stable TableID from its absolute path, so the same table always
// hashes to the same id across process restarts.
func OpenBaseFile(path string) (*BaseFile, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: file path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path %q: %w", path, err)
	}

	f, err := os.OpenFile(abs, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", abs, err)
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(abs))

	return &BaseFile{file: f, path: abs, id: primitives.TableID(h.Sum64())}, nil
}

func (bf *BaseFile) ID() primitives.TableID { return bf.id }

func (bf *BaseFile) Path() string { return bf.path }

// NumPages rounds up — a partially written final page still counts.
func (bf *BaseFile) NumPages() (primitives.PageNumber, error) {
	bf.mutex.RLock()
	defer bf.mutex.RUnlock()

	if bf.file == nil {
		return 0, fmt.Errorf("storage: file is closed")
	}
	info, err := bf.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("storage: stat: %w", err)
	}

	n := info.Size() / int64(PageSize)
	if info.Size()%int64(PageSize) != 0 {
		n++
	}
	return primitives.PageNumber(n), nil
}

// ReadPageData reads exactly PageSize bytes at pageNo's offset. The
// only short-read case callers should treat specially is EOF on the
// page exactly at NumPages (see HeapFile.ReadPage).
func (bf *BaseFile) ReadPageData(pageNo primitives.PageNumber) ([]byte, error) {
	bf.mutex.RLock()
	defer bf.mutex.RUnlock()

	if bf.file == nil {
		return nil, fmt.Errorf("storage: file is closed")
	}

	buf := make([]byte, PageSize)
	n, err := bf.file.ReadAt(buf, int64(pageNo)*int64(PageSize))
	if err != nil {
		// A short read that actually returned bytes (e.g. a final page
		// written before a crash, one page short of a full PageSize) is
		// still real data, zero-padded by buf's own initial zeroing —
		// only a true zero-byte read means "this page doesn't exist yet".
		if err == io.EOF && n > 0 {
			return buf, nil
		}
		return buf, err
	}
	return buf, nil
}

// WritePageData writes exactly PageSize bytes at pageNo's offset and
// syncs. FORCE at commit relies on this call being durable once it
// returns. pageNo may extend the file by exactly one page (numPages
// growth on insert); anything further ahead fails with BadPageNumber
// rather than silently punching a hole in the file.
func (bf *BaseFile) WritePageData(pageNo primitives.PageNumber, data []byte) error {
	bf.mutex.Lock()
	defer bf.mutex.Unlock()

	if bf.file == nil {
		return fmt.Errorf("storage: file is closed")
	}
	if len(data) != PageSize {
		return fmt.Errorf("storage: page data must be %d bytes, got %d", PageSize, len(data))
	}

	info, err := bf.file.Stat()
	if err != nil {
		return fmt.Errorf("storage: stat: %w", err)
	}
	numPages := info.Size() / int64(PageSize)
	if info.Size()%int64(PageSize) != 0 {
		numPages++
	}
	if int64(pageNo) > numPages {
		return dberrors.New(dberrors.BadPageNumber, fmt.Sprintf("storage: page %d is past end of file (numPages=%d)", pageNo, numPages))
	}

	if _, err := bf.file.WriteAt(data, int64(pageNo)*int64(PageSize)); err != nil {
		return fmt.Errorf("storage: write page %d: %w", pageNo, err)
	}
	return bf.file.Sync()
}

func (bf *BaseFile) Close() error {
	bf.mutex.Lock()
	defer bf.mutex.Unlock()

	if bf.file == nil {
		return nil
	}
	err := bf.file.Close()
	bf.file = nil
	return err
}
