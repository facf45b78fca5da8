// Package logging wraps log/slog with the context helpers the rest of
// the engine uses to tag log lines with transaction and table
// identity.
//
// Grounded on the donor's pkg/logging package (Init/GetLogger global
// logger, WithTx/WithTable/WithTableTx attribute helpers), trimmed of
// its file-rotation and multi-handler configuration — a teaching
// engine logs to one stream, text or JSON, chosen once at startup.
package logging

import (
	"log/slog"
	"os"
	"sync"

	"heapbase/pkg/primitives"
)

var (
	mutex  sync.Mutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Init installs the process-wide logger. json selects slog's JSON
// handler; otherwise text.
func Init(json bool, level slog.Level) {
	mutex.Lock()
	defer mutex.Unlock()

	opts := &slog.HandlerOptions{Level: level}
	if json {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
		return
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func Get() *slog.Logger {
	mutex.Lock()
	defer mutex.Unlock()
	return logger
}

// WithTx returns a logger tagged with tid, for call sites inside
// transaction-scoped code (lock waits, commit/abort).
func WithTx(tid primitives.TransactionID) *slog.Logger {
	return Get().With("txn", tid.String())
}

// WithTable returns a logger tagged with a table name, for call sites
// inside a single table's file or catalog operations.
func WithTable(table string) *slog.Logger {
	return Get().With("table", table)
}

// WithTableTx combines both tags, for buffer-pool operations that know
// both the transaction and the table a page belongs to.
func WithTableTx(table string, tid primitives.TransactionID) *slog.Logger {
	return Get().With("table", table, "txn", tid.String())
}
