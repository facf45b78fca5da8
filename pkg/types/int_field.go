package types

import (
	"encoding/binary"
	"hash/fnv"
	"io"
	"strconv"

	"heapbase/pkg/primitives"
)

// IntField is a 4-byte big-endian signed integer value.
//
// Grounded on the donor's pkg/types/integer.go Int32Field — same
// big-endian serialization and fnv32a hash, collapsed from the donor's
// four width/signedness variants (Int32/Int64/Uint32/Uint64) down to
// the single INT kind this engine supports.
type IntField struct {
	Value int32
}

func NewIntField(value int32) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Serialize(w io.Writer) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(f.Value))
	_, err := w.Write(b[:])
	return err
}

func (f *IntField) Compare(op primitives.Predicate, other Field) (bool, error) {
	o, ok := other.(*IntField)
	if !ok {
		return false, nil
	}
	switch op {
	case primitives.Equals:
		return f.Value == o.Value, nil
	case primitives.LessThan:
		return f.Value < o.Value, nil
	case primitives.GreaterThan:
		return f.Value > o.Value, nil
	case primitives.LessThanOrEqual:
		return f.Value <= o.Value, nil
	case primitives.GreaterThanOrEqual:
		return f.Value >= o.Value, nil
	case primitives.NotEqual:
		return f.Value != o.Value, nil
	case primitives.Like:
		// Integer LIKE coincides with equality.
		return f.Value == o.Value, nil
	default:
		return false, nil
	}
}

func (f *IntField) Type() Type { return IntType }

func (f *IntField) String() string {
	return strconv.FormatInt(int64(f.Value), 10)
}

func (f *IntField) Equals(other Field) bool {
	o, ok := other.(*IntField)
	return ok && f.Value == o.Value
}

func (f *IntField) Hash() (uint32, error) {
	h := fnv.New32a()
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(f.Value))
	_, _ = h.Write(b[:])
	return h.Sum32(), nil
}
