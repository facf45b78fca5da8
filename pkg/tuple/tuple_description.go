// Package tuple defines the row and schema types: TupleDescription
// (schema), Tuple (a row bound to a schema), and RecordID (a row's
// on-disk address). Grounded on the donor's pkg/tuple package.
package tuple

import (
	"fmt"
	"strings"

	"heapbase/pkg/types"
)

// TupleDescription is an ordered schema: a list of (type, name) pairs.
type TupleDescription struct {
	Types      []types.Type
	FieldNames []string
}

// New builds a TupleDescription. fieldNames may be nil (unnamed fields);
// if provided it must have the same length as fieldTypes.
func New(fieldTypes []types.Type, fieldNames []string) (*TupleDescription, error) {
	if len(fieldTypes) < 1 {
		return nil, fmt.Errorf("tuple: schema must have at least one field")
	}
	if fieldNames != nil && len(fieldNames) != len(fieldTypes) {
		return nil, fmt.Errorf("tuple: %d field names for %d field types", len(fieldNames), len(fieldTypes))
	}

	typesCopy := make([]types.Type, len(fieldTypes))
	copy(typesCopy, fieldTypes)

	var namesCopy []string
	if fieldNames != nil {
		namesCopy = make([]string, len(fieldNames))
		copy(namesCopy, fieldNames)
	}

	return &TupleDescription{Types: typesCopy, FieldNames: namesCopy}, nil
}

func (td *TupleDescription) NumFields() int { return len(td.Types) }

func (td *TupleDescription) FieldName(i int) (string, error) {
	if i < 0 || i >= len(td.Types) {
		return "", fmt.Errorf("tuple: field index %d out of bounds [0,%d)", i, len(td.Types))
	}
	if td.FieldNames == nil {
		return "", nil
	}
	return td.FieldNames[i], nil
}

func (td *TupleDescription) FieldType(i int) (types.Type, error) {
	if i < 0 || i >= len(td.Types) {
		return 0, fmt.Errorf("tuple: field index %d out of bounds [0,%d)", i, len(td.Types))
	}
	return td.Types[i], nil
}

// Size is the sum of every field's fixed serialized width: the total
// number of bytes one tuple occupies in a slot.
func (td *TupleDescription) Size() uint32 {
	var size uint32
	for _, t := range td.Types {
		size += t.Size()
	}
	return size
}

// Equals compares field types and names position-wise. This is
// stricter than the donor's TupleDescription.Equals, which ignores
// names entirely (see DESIGN.md) — names must match too.
func (td *TupleDescription) Equals(other *TupleDescription) bool {
	if other == nil || len(td.Types) != len(other.Types) {
		return false
	}
	for i, t := range td.Types {
		if t != other.Types[i] {
			return false
		}
		an, _ := td.FieldName(i)
		bn, _ := other.FieldName(i)
		if an != bn {
			return false
		}
	}
	return true
}

func (td *TupleDescription) String() string {
	parts := make([]string, len(td.Types))
	for i, t := range td.Types {
		name := "null"
		if td.FieldNames != nil {
			name = td.FieldNames[i]
		}
		parts[i] = fmt.Sprintf("%s(%s)", t.String(), name)
	}
	return strings.Join(parts, ",")
}

// FindField locates a field by name, case-sensitive, first match wins.
func (td *TupleDescription) FindField(name string) (int, error) {
	for i := range td.Types {
		n, _ := td.FieldName(i)
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("tuple: no field named %q", name)
}

// Merge concatenates two schemas field-by-field, used by the donor-style
// Project/join composition. A nil input is treated as the empty schema.
func Merge(a, b *TupleDescription) *TupleDescription {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	newTypes := append(append([]types.Type{}, a.Types...), b.Types...)

	var newNames []string
	if a.FieldNames != nil || b.FieldNames != nil {
		newNames = make([]string, 0, len(newTypes))
		newNames = append(newNames, namesOrBlank(a)...)
		newNames = append(newNames, namesOrBlank(b)...)
	}

	merged, _ := New(newTypes, newNames)
	return merged
}

func namesOrBlank(td *TupleDescription) []string {
	if td.FieldNames != nil {
		return td.FieldNames
	}
	return make([]string, len(td.Types))
}
