// Package txrunner fans out N caller-supplied transaction bodies as
// concurrent goroutines against one shared BufferPool: multiple threads,
// one per active transaction, calling the buffer pool concurrently. It
// is test/demo scaffolding over that model, not a new locking
// primitive: every correctness guarantee still comes from
// pkg/concurrency/lock and pkg/memory.
//
// Grounded on the donor's use of golang.org/x/sync/errgroup in
// pkg/planner/internal/ddl/drop.go (fan out independent units of work,
// collect the first error), generalized here from "drop N indexes" to
// "run N transaction bodies".
package txrunner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"heapbase/pkg/concurrency/transaction"
	"heapbase/pkg/memory"
	"heapbase/pkg/primitives"
)

// TxFunc is one transaction's body: it receives a fresh TransactionID
// and the shared buffer pool, and returns an error if the transaction
// should abort. Run commits on a nil return and aborts otherwise.
type TxFunc func(ctx context.Context, tid primitives.TransactionID, bp *memory.BufferPool) error

// Run executes every fn in its own goroutine against bp, each under
// its own freshly issued TransactionID. It commits a transaction whose
// body returns nil and aborts one whose body returns an error,
// regardless of whether other transactions in the batch are still
// running. Run returns the first non-nil error observed (via
// errgroup's cancellation of ctx for the rest), after every goroutine
// has finished cleaning up its own transaction.
func Run(ctx context.Context, bp *memory.BufferPool, fns ...TxFunc) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, fn := range fns {
		fn := fn
		g.Go(func() error {
			tid := transaction.New()
			bodyErr := fn(gctx, tid, bp)
			commit := bodyErr == nil
			if completeErr := bp.TransactionComplete(tid, commit); completeErr != nil && bodyErr == nil {
				return completeErr
			}
			return bodyErr
		})
	}

	return g.Wait()
}
