package types

import (
	"encoding/binary"
	"hash/fnv"
	"io"
	"strings"

	"heapbase/pkg/primitives"
)

// StringMaxSize is the fixed on-disk width of a string field's payload,
// not counting its 4-byte length prefix, held at 128 for bit-exact
// compatibility with on-disk files; it is not configurable per-field
// the way the donor's StringMaxSize-per-instance scheme allows, but one
// engine-wide constant.
const StringMaxSize = 128

// StringField is a string value, serialized as a 4-byte big-endian
// length prefix followed by StringMaxSize bytes (the value, then
// zero padding). Grounded on the donor's pkg/types/string.go, with
// MaxSize fixed at 128 instead of being a per-value field.
type StringField struct {
	Value string
}

// NewStringField truncates values longer than StringMaxSize, matching
// the donor's truncate-on-construction behavior.
func NewStringField(value string) *StringField {
	if len(value) > StringMaxSize {
		value = value[:StringMaxSize]
	}
	return &StringField{Value: value}
}

func (s *StringField) Compare(op primitives.Predicate, other Field) (bool, error) {
	o, ok := other.(*StringField)
	if !ok {
		return false, nil
	}
	cmp := strings.Compare(s.Value, o.Value)
	switch op {
	case primitives.Equals:
		return cmp == 0, nil
	case primitives.LessThan:
		return cmp < 0, nil
	case primitives.GreaterThan:
		return cmp > 0, nil
	case primitives.LessThanOrEqual:
		return cmp <= 0, nil
	case primitives.GreaterThanOrEqual:
		return cmp >= 0, nil
	case primitives.NotEqual:
		return cmp != 0, nil
	case primitives.Like:
		return strings.Contains(s.Value, o.Value), nil
	default:
		return false, nil
	}
}

func (s *StringField) Serialize(w io.Writer) error {
	length := len(s.Value)
	var lb [4]byte
	binary.BigEndian.PutUint32(lb[:], uint32(length))
	if _, err := w.Write(lb[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte(s.Value)); err != nil {
		return err
	}
	padding := make([]byte, StringMaxSize-length)
	_, err := w.Write(padding)
	return err
}

func (s *StringField) Type() Type { return StringType }

func (s *StringField) String() string { return s.Value }

func (s *StringField) Equals(other Field) bool {
	o, ok := other.(*StringField)
	return ok && s.Value == o.Value
}

func (s *StringField) Hash() (uint32, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s.Value))
	return h.Sum32(), nil
}
