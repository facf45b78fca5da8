package execution

import (
	"heapbase/pkg/memory"
	"heapbase/pkg/primitives"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// Insert is a one-shot operator: the first HasNext/Next call drains its
// child completely, inserting every tuple into tableID through the
// buffer pool, and the single result tuple it ever emits carries the
// count inserted. Calling Next a second time yields nothing further,
// and so does reopening it; only Rewind re-arms it.
type Insert struct {
	BaseIterator

	tid     primitives.TransactionID
	tableID primitives.TableID
	child   DbIterator
	bp      *memory.BufferPool
	td      *tuple.TupleDescription
	done    bool
}

func NewInsert(tid primitives.TransactionID, tableID primitives.TableID, child DbIterator, bp *memory.BufferPool) (*Insert, error) {
	td, err := tuple.New([]types.Type{types.IntType}, []string{"count"})
	if err != nil {
		return nil, err
	}
	ins := &Insert{tid: tid, tableID: tableID, child: child, bp: bp, td: td}
	ins.init(ins.readNext)
	return ins, nil
}

func (ins *Insert) Open() error {
	if err := ins.child.Open(); err != nil {
		return err
	}
	ins.markOpened()
	return nil
}

func (ins *Insert) readNext() (*tuple.Tuple, error) {
	if ins.done {
		return nil, nil
	}
	ins.done = true

	count := int32(0)
	for {
		has, err := ins.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		t, err := ins.child.Next()
		if err != nil {
			return nil, err
		}
		if err := ins.bp.InsertTuple(ins.tid, ins.tableID, t); err != nil {
			return nil, err
		}
		count++
	}

	result := tuple.NewTuple(ins.td)
	if err := result.SetField(0, types.NewIntField(count)); err != nil {
		return nil, err
	}
	return result, nil
}

func (ins *Insert) Rewind() error {
	ins.done = false
	return ins.Open()
}

func (ins *Insert) Close() error {
	ins.markClosed()
	return ins.child.Close()
}

func (ins *Insert) TupleDesc() *tuple.TupleDescription { return ins.td }

func (ins *Insert) Children() []DbIterator { return []DbIterator{ins.child} }

func (ins *Insert) SetChildren(children []DbIterator) { ins.child = children[0] }
