package execution

import (
	"heapbase/pkg/memory"
	"heapbase/pkg/primitives"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// Delete is Insert's mirror image: one-shot, drains its child (whose
// tuples must carry a RecordID — in practice a SeqScan, possibly
// Filter-ed, over the same table), deletes each from tableID through
// the buffer pool, and emits a single count tuple.
type Delete struct {
	BaseIterator

	tid     primitives.TransactionID
	tableID primitives.TableID
	child   DbIterator
	bp      *memory.BufferPool
	td      *tuple.TupleDescription
	done    bool
}

func NewDelete(tid primitives.TransactionID, tableID primitives.TableID, child DbIterator, bp *memory.BufferPool) (*Delete, error) {
	td, err := tuple.New([]types.Type{types.IntType}, []string{"count"})
	if err != nil {
		return nil, err
	}
	del := &Delete{tid: tid, tableID: tableID, child: child, bp: bp, td: td}
	del.init(del.readNext)
	return del, nil
}

func (del *Delete) Open() error {
	if err := del.child.Open(); err != nil {
		return err
	}
	del.markOpened()
	return nil
}

func (del *Delete) readNext() (*tuple.Tuple, error) {
	if del.done {
		return nil, nil
	}
	del.done = true

	count := int32(0)
	for {
		has, err := del.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		t, err := del.child.Next()
		if err != nil {
			return nil, err
		}
		if err := del.bp.DeleteTuple(del.tid, del.tableID, t); err != nil {
			return nil, err
		}
		count++
	}

	result := tuple.NewTuple(del.td)
	if err := result.SetField(0, types.NewIntField(count)); err != nil {
		return nil, err
	}
	return result, nil
}

func (del *Delete) Rewind() error {
	del.done = false
	return del.Open()
}

func (del *Delete) Close() error {
	del.markClosed()
	return del.child.Close()
}

func (del *Delete) TupleDesc() *tuple.TupleDescription { return del.td }

func (del *Delete) Children() []DbIterator { return []DbIterator{del.child} }

func (del *Delete) SetChildren(children []DbIterator) { del.child = children[0] }
