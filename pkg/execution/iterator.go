// Package execution implements the pull-based operator pipeline:
// SeqScan, Filter, Insert, Delete, Project, and (via the aggregation
// subpackage) grouped aggregation.
//
// Grounded on the donor's pkg/execution/iterator.go for the
// lookahead-caching BaseIterator shape (an embedded struct that turns
// a simple "give me the next tuple or nil" function into HasNext/Next
// semantics), and on its seqscan.go/filter.go/insert.go/delete.go for
// per-operator structure — reworked around this package's own
// Predicate/Aggregator contracts rather than the donor's parser-driven
// plan nodes.
package execution

import (
	"fmt"

	"heapbase/pkg/tuple"
)

// DbIterator is the contract every operator in the pipeline satisfies.
// Children/SetChildren give a planner two-way access to the operator
// tree for rewrites (e.g. predicate pushdown) without needing a
// type switch over every concrete operator.
type DbIterator interface {
	Open() error
	HasNext() (bool, error)
	Next() (*tuple.Tuple, error)
	Rewind() error
	Close() error
	TupleDesc() *tuple.TupleDescription
	Children() []DbIterator
	SetChildren(children []DbIterator)
}

type readNextFunc func() (*tuple.Tuple, error)

// BaseIterator supplies HasNext/Next on top of a single readNext
// function that returns (nil, nil) at end of stream. Embedding it lets
// each operator implement only Open/Rewind/Close/TupleDesc and its own
// readNext.
type BaseIterator struct {
	opened    bool
	lookahead *tuple.Tuple
	readNext  readNextFunc
}

func (b *BaseIterator) init(readNext readNextFunc) {
	b.readNext = readNext
}

func (b *BaseIterator) markOpened() { b.opened = true }

func (b *BaseIterator) markClosed() {
	b.opened = false
	b.lookahead = nil
}

func (b *BaseIterator) HasNext() (bool, error) {
	if !b.opened {
		return false, fmt.Errorf("execution: iterator not opened")
	}
	if b.lookahead != nil {
		return true, nil
	}
	t, err := b.readNext()
	if err != nil {
		return false, err
	}
	b.lookahead = t
	return b.lookahead != nil, nil
}

func (b *BaseIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := b.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, fmt.Errorf("execution: iterator exhausted")
	}
	t := b.lookahead
	b.lookahead = nil
	return t, nil
}
