package execution

import "heapbase/pkg/tuple"

// Filter emits only the child's tuples that satisfy pred.
type Filter struct {
	BaseIterator

	pred  *Predicate
	child DbIterator
}

func NewFilter(pred *Predicate, child DbIterator) *Filter {
	f := &Filter{pred: pred, child: child}
	f.init(f.readNext)
	return f
}

func (f *Filter) Open() error {
	if err := f.child.Open(); err != nil {
		return err
	}
	f.markOpened()
	return nil
}

func (f *Filter) readNext() (*tuple.Tuple, error) {
	for {
		has, err := f.child.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, nil
		}
		t, err := f.child.Next()
		if err != nil {
			return nil, err
		}
		ok, err := f.pred.Matches(t)
		if err != nil {
			return nil, err
		}
		if ok {
			return t, nil
		}
	}
}

func (f *Filter) Rewind() error { return f.child.Rewind() }

func (f *Filter) Close() error {
	f.markClosed()
	return f.child.Close()
}

func (f *Filter) TupleDesc() *tuple.TupleDescription { return f.child.TupleDesc() }

func (f *Filter) Children() []DbIterator { return []DbIterator{f.child} }

func (f *Filter) SetChildren(children []DbIterator) { f.child = children[0] }
