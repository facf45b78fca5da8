package execution

import (
	"heapbase/pkg/primitives"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// Predicate tests a single field of a tuple against a fixed operand
// using one of the comparison operators primitives.Predicate defines.
type Predicate struct {
	Field   int
	Op      primitives.Predicate
	Operand types.Field
}

func NewPredicate(field int, op primitives.Predicate, operand types.Field) *Predicate {
	return &Predicate{Field: field, Op: op, Operand: operand}
}

func (p *Predicate) Matches(t *tuple.Tuple) (bool, error) {
	f, err := t.Field(p.Field)
	if err != nil {
		return false, err
	}
	return f.Compare(p.Op, p.Operand)
}
