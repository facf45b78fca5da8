package execution

import (
	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/heap"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// SeqScan streams every tuple of one table in page/slot order under
// tid, optionally prefixing every field name with an alias (so a join
// of a table with itself can still tell "left.x" from "right.x" apart
// — not exercised by any operator here yet, but cheap to carry since
// the donor's seqscan.go always threads an alias through).
type SeqScan struct {
	BaseIterator

	tid     primitives.TransactionID
	file    *heap.HeapFile
	getPage heap.GetPageFunc
	td      *tuple.TupleDescription

	fileIter *heap.FileIterator
}

func NewSeqScan(tid primitives.TransactionID, file *heap.HeapFile, alias string, getPage heap.GetPageFunc) *SeqScan {
	s := &SeqScan{
		tid:     tid,
		file:    file,
		getPage: getPage,
		td:      aliasTupleDesc(file.TupleDesc(), alias),
	}
	s.init(s.readNext)
	return s
}

func aliasTupleDesc(td *tuple.TupleDescription, alias string) *tuple.TupleDescription {
	if alias == "" {
		return td
	}
	n := td.NumFields()
	names := make([]string, n)
	fieldTypes := make([]types.Type, n)
	for i := 0; i < n; i++ {
		name, _ := td.FieldName(i)
		ft, _ := td.FieldType(i)
		names[i] = alias + "." + name
		fieldTypes[i] = ft
	}
	aliased, err := tuple.New(fieldTypes, names)
	if err != nil {
		return td
	}
	return aliased
}

func (s *SeqScan) Open() error {
	s.fileIter = s.file.Iterator(s.tid, s.getPage)
	if err := s.fileIter.Open(); err != nil {
		return err
	}
	s.markOpened()
	return nil
}

func (s *SeqScan) readNext() (*tuple.Tuple, error) {
	has, err := s.fileIter.HasNext()
	if err != nil || !has {
		return nil, err
	}
	return s.fileIter.Next()
}

func (s *SeqScan) Rewind() error { return s.fileIter.Rewind() }

func (s *SeqScan) Close() error {
	s.markClosed()
	if s.fileIter != nil {
		return s.fileIter.Close()
	}
	return nil
}

func (s *SeqScan) TupleDesc() *tuple.TupleDescription { return s.td }

// Children reports none: SeqScan is the pipeline's leaf, reading
// directly off the heap file rather than another operator.
func (s *SeqScan) Children() []DbIterator { return nil }

// SetChildren is a no-op — a leaf has no child slot for a planner
// rewrite to replace.
func (s *SeqScan) SetChildren(children []DbIterator) {}
