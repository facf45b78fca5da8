package execution

import (
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// Project narrows each child tuple down to a chosen subset of fields,
// in the given order. A teaching pipeline with Aggregate but no way to
// drop the remaining columns would be an odd omission.
type Project struct {
	BaseIterator

	child  DbIterator
	fields []int
	td     *tuple.TupleDescription
}

func NewProject(fields []int, fieldTypes []types.Type, fieldNames []string, child DbIterator) (*Project, error) {
	td, err := tuple.New(fieldTypes, fieldNames)
	if err != nil {
		return nil, err
	}
	p := &Project{child: child, fields: fields, td: td}
	p.init(p.readNext)
	return p, nil
}

func (p *Project) Open() error {
	if err := p.child.Open(); err != nil {
		return err
	}
	p.markOpened()
	return nil
}

func (p *Project) readNext() (*tuple.Tuple, error) {
	has, err := p.child.HasNext()
	if err != nil || !has {
		return nil, err
	}
	src, err := p.child.Next()
	if err != nil {
		return nil, err
	}
	out := tuple.NewTuple(p.td)
	for i, srcIdx := range p.fields {
		f, err := src.Field(srcIdx)
		if err != nil {
			return nil, err
		}
		if err := out.SetField(i, f); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p *Project) Rewind() error { return p.child.Rewind() }

func (p *Project) Close() error {
	p.markClosed()
	return p.child.Close()
}

func (p *Project) TupleDesc() *tuple.TupleDescription { return p.td }

func (p *Project) Children() []DbIterator { return []DbIterator{p.child} }

func (p *Project) SetChildren(children []DbIterator) { p.child = children[0] }
