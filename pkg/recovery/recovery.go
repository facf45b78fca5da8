// Package recovery is the minimal append-only log hook the buffer pool
// calls into: it records that a page was about to be overwritten, and
// can force those records durable, but it does not read its own log
// back, replay it, or checkpoint — a real WAL reader and redo/undo pass
// is out of scope for this engine.
//
// Grounded on the donor's pkg/log package's on-disk framing (a length-
// prefixed record per write, fsync on Force) without its reader,
// checkpoint, or ARIES-style record/ subpackage — those exist to
// support crash replay, which this package deliberately doesn't do.
package recovery

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/page"
)

// Log is an append-only record of before/after page images, written
// ahead of each buffer-pool flush.
type Log struct {
	mutex sync.Mutex
	file  *os.File
}

func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("recovery: open log %q: %w", path, err)
	}
	return &Log{file: f}, nil
}

// LogWrite appends one record: the 8-byte txn id, then the before-image
// and the after-image, each preceded by its page's 8-byte table id and
// 8-byte page number. Images are page.PageSize bytes; records carry no
// length prefix. It does not fsync — callers that need durability
// before proceeding should call Force.
func (l *Log) LogWrite(tid primitives.TransactionID, before, after page.Page) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var buf []byte
	buf = appendInt64(buf, tid.Raw())
	buf = appendBlock(buf, before.ID().TableID, before.ID().PageNumber, before.Data())
	buf = appendBlock(buf, after.ID().TableID, after.ID().PageNumber, after.Data())

	_, err := l.file.Write(buf)
	return err
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

func appendBlock(buf []byte, tableID primitives.TableID, pageNum primitives.PageNumber, data []byte) []byte {
	var tmp [16]byte
	binary.BigEndian.PutUint64(tmp[0:8], uint64(tableID))
	binary.BigEndian.PutUint64(tmp[8:16], uint64(pageNum))
	buf = append(buf, tmp[:]...)
	return append(buf, data...)
}

// Force fsyncs every record written so far, the log-ahead guarantee
// the buffer pool depends on before it writes a page's data to its
// table file.
func (l *Log) Force() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.file.Sync()
}

func (l *Log) Close() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.file.Close()
}
