package execution

import (
	"heapbase/pkg/execution/aggregation"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// Aggregate fully drains its child on Open (grouped aggregation can't
// emit a result row until every tuple in a group has been seen), then
// streams the accumulated result rows.
type Aggregate struct {
	BaseIterator

	child DbIterator
	agg   *aggregation.Aggregator

	results []*tuple.Tuple
	td      *tuple.TupleDescription
	cursor  int
}

// NewAggregate builds an Aggregate over child, aggregating aggField
// with op, grouped by groupField (aggregation.NoGrouping for none).
func NewAggregate(child DbIterator, groupField int, aggField int, op aggregation.Op) (*Aggregate, error) {
	groupFT, err := fieldTypeOrZero(child.TupleDesc(), groupField)
	if err != nil {
		return nil, err
	}

	a := &Aggregate{
		child: child,
		agg:   aggregation.New(groupField, groupFT, aggField, op),
	}
	a.init(a.readNext)
	return a, nil
}

func fieldTypeOrZero(td *tuple.TupleDescription, field int) (types.Type, error) {
	if field == aggregation.NoGrouping {
		return types.IntType, nil
	}
	return td.FieldType(field)
}

func (a *Aggregate) Open() error {
	if err := a.child.Open(); err != nil {
		return err
	}
	for {
		has, err := a.child.HasNext()
		if err != nil {
			return err
		}
		if !has {
			break
		}
		t, err := a.child.Next()
		if err != nil {
			return err
		}
		if err := a.agg.Merge(t); err != nil {
			return err
		}
	}

	results, td, err := a.agg.Results()
	if err != nil {
		return err
	}
	a.results = results
	a.td = td
	a.cursor = 0
	a.markOpened()
	return nil
}

func (a *Aggregate) readNext() (*tuple.Tuple, error) {
	if a.cursor >= len(a.results) {
		return nil, nil
	}
	t := a.results[a.cursor]
	a.cursor++
	return t, nil
}

func (a *Aggregate) Rewind() error {
	a.cursor = 0
	return nil
}

func (a *Aggregate) Close() error {
	a.markClosed()
	return a.child.Close()
}

func (a *Aggregate) TupleDesc() *tuple.TupleDescription { return a.td }

func (a *Aggregate) Children() []DbIterator { return []DbIterator{a.child} }

func (a *Aggregate) SetChildren(children []DbIterator) { a.child = children[0] }
