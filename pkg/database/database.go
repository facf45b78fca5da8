// Package database bundles the engine's process-wide collaborators —
// Catalog, BufferPool, and the recovery log — behind one handle passed
// explicitly to callers rather than held in global singletons.
//
// Grounded on the donor's pkg/database/db.go Database struct (which
// bundles a CatalogManager, PageStore, WAL, and TransactionRegistry
// behind NewDatabase/Begin/Commit-style methods), trimmed of its query
// planner, parser, and statistics manager wiring — those are out of
// scope for this engine.
package database

import (
	"path/filepath"

	"heapbase/pkg/catalog"
	"heapbase/pkg/catalogtext"
	"heapbase/pkg/concurrency/lock"
	"heapbase/pkg/concurrency/transaction"
	"heapbase/pkg/logging"
	"heapbase/pkg/memory"
	"heapbase/pkg/primitives"
	"heapbase/pkg/recovery"
)

// Config gathers the constructor parameters for a Database, matching
// the donor's constructor-argument style (no flag/env config layer for
// these knobs).
type Config struct {
	// DataDir holds every table's .dat file and the recovery log.
	DataDir string
	// BufferPoolCapacity is the page cache's capacity in pages.
	BufferPoolCapacity int
	// LockConfig controls the bounded-retry deadlock policy; the zero
	// value is replaced with lock.DefaultConfig().
	LockConfig lock.Config
}

// DefaultConfig gives a 50-page buffer pool and 10x~10ms lock retries.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:            dataDir,
		BufferPoolCapacity: 50,
		LockConfig:         lock.DefaultConfig(),
	}
}

// Database is the engine's top-level handle: one Catalog, one
// BufferPool, one recovery Log, shared by every transaction running
// against it.
type Database struct {
	cfg        Config
	cat        *catalog.Catalog
	bufferPool *memory.BufferPool
	log        *recovery.Log
}

// Open creates (or reopens) a Database rooted at cfg.DataDir. The
// recovery log lives at <DataDir>/wal.log.
func Open(cfg Config) (*Database, error) {
	if cfg.BufferPoolCapacity <= 0 {
		cfg.BufferPoolCapacity = 50
	}
	if cfg.LockConfig.MaxAttempts == 0 {
		cfg.LockConfig = lock.DefaultConfig()
	}

	log, err := recovery.Open(filepath.Join(cfg.DataDir, "wal.log"))
	if err != nil {
		return nil, err
	}

	cat := catalog.New()
	locks := lock.NewManager(cfg.LockConfig)
	bp := memory.New(cfg.BufferPoolCapacity, cat, locks, log)

	return &Database{cfg: cfg, cat: cat, bufferPool: bp, log: log}, nil
}

// LoadCatalog parses catalogFile's table-per-line grammar and
// registers every table it names into this Database's Catalog.
func (db *Database) LoadCatalog(catalogFile string) (int, error) {
	n, err := catalogtext.Load(catalogFile, db.cat)
	if err != nil {
		logging.Get().Error("load catalog failed", "file", catalogFile, "err", err)
		return n, err
	}
	logging.Get().Info("loaded catalog", "file", catalogFile, "tables", n)
	return n, nil
}

func (db *Database) Catalog() *catalog.Catalog      { return db.cat }
func (db *Database) BufferPool() *memory.BufferPool { return db.bufferPool }
func (db *Database) Log() *recovery.Log             { return db.log }

// Begin issues a fresh TransactionID. The caller is responsible for
// calling Commit or Abort exactly once for the id it gets back.
func (db *Database) Begin() primitives.TransactionID {
	return transaction.New()
}

// Commit flushes every page tid dirtied and releases every lock it
// holds.
func (db *Database) Commit(tid primitives.TransactionID) error {
	return db.bufferPool.TransactionComplete(tid, true)
}

// Abort discards every page tid dirtied (reloading from disk) and
// releases every lock it holds.
func (db *Database) Abort(tid primitives.TransactionID) error {
	return db.bufferPool.TransactionComplete(tid, false)
}

// Close flushes every dirty cached page and closes the recovery log.
func (db *Database) Close() error {
	if err := db.bufferPool.FlushAllPages(); err != nil {
		return err
	}
	return db.log.Close()
}
