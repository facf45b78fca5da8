// Package transaction issues unique transaction identities.
//
// Grounded on the donor's pkg/concurrency/transaction/transaction.go,
// which generates TransactionID values from an atomic counter rather
// than random UUIDs — cheap, monotonic, and good enough for a single
// process.
package transaction

import (
	"sync/atomic"

	"heapbase/pkg/primitives"
)

var counter int64

// New returns a fresh, never-before-issued TransactionID.
func New() primitives.TransactionID {
	id := atomic.AddInt64(&counter, 1)
	return primitives.TransactionIDFromValue(id)
}
