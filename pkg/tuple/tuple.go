package tuple

import (
	"fmt"
	"strings"

	"heapbase/pkg/types"
)

// Tuple is a row: a fixed-length sequence of fields bound to a schema,
// plus an optional RecordID recording where it lives on disk. A freshly
// constructed Tuple (e.g. one being built for Insert) has a nil
// RecordID until HeapPage.InsertTuple assigns one.
type Tuple struct {
	TupleDesc *TupleDescription
	RecordID  *RecordID
	fields    []types.Field
}

func NewTuple(td *TupleDescription) *Tuple {
	return &Tuple{TupleDesc: td, fields: make([]types.Field, td.NumFields())}
}

// SetField assigns the ith field, rejecting a value whose type does not
// match the schema at that position.
func (t *Tuple) SetField(i int, field types.Field) error {
	if i < 0 || i >= len(t.fields) {
		return fmt.Errorf("tuple: field index %d out of bounds [0,%d)", i, len(t.fields))
	}
	want, _ := t.TupleDesc.FieldType(i)
	if field.Type() != want {
		return fmt.Errorf("tuple: field %d type mismatch: schema wants %v, got %v", i, want, field.Type())
	}
	t.fields[i] = field
	return nil
}

func (t *Tuple) Field(i int) (types.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return nil, fmt.Errorf("tuple: field index %d out of bounds [0,%d)", i, len(t.fields))
	}
	return t.fields[i], nil
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.fields))
	for i, f := range t.fields {
		if f != nil {
			parts[i] = f.String()
		} else {
			parts[i] = "null"
		}
	}
	return strings.Join(parts, "\t")
}

// Clone returns a deep-enough copy: a new Tuple with the same field
// values (Field implementations are treated as immutable, so the slice
// itself is what gets copied). RecordID is not copied — a clone is not
// yet bound to a location on disk.
func (t *Tuple) Clone() *Tuple {
	clone := NewTuple(t.TupleDesc)
	copy(clone.fields, t.fields)
	return clone
}
