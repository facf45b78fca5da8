package types

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Parse reads exactly Type.Size() bytes from r and reconstructs the
// corresponding Field. Grounded on the donor's pkg/types/parser.go
// ParseField dispatcher, including its habit of explicitly reading and
// discarding the string padding bytes (rather than seeking past them)
// so the reader ends up at a predictable offset regardless of whether
// the underlying io.Reader supports seeking.
func Parse(r io.Reader, t Type) (Field, error) {
	switch t {
	case IntType:
		return parseInt(r)
	case StringType:
		return parseString(r)
	default:
		return nil, fmt.Errorf("types: unknown field type %v", t)
	}
}

func parseInt(r io.Reader) (Field, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("types: read int field: %w", err)
	}
	return NewIntField(int32(binary.BigEndian.Uint32(b[:]))), nil
}

func parseString(r io.Reader) (Field, error) {
	var lb [4]byte
	if _, err := io.ReadFull(r, lb[:]); err != nil {
		return nil, fmt.Errorf("types: read string length: %w", err)
	}
	length := binary.BigEndian.Uint32(lb[:])
	if length > StringMaxSize {
		return nil, fmt.Errorf("types: string length %d exceeds max %d", length, StringMaxSize)
	}

	value := make([]byte, length)
	if _, err := io.ReadFull(r, value); err != nil {
		return nil, fmt.Errorf("types: read string value: %w", err)
	}

	padding := make([]byte, StringMaxSize-length)
	if _, err := io.ReadFull(r, padding); err != nil {
		return nil, fmt.Errorf("types: read string padding: %w", err)
	}

	return &StringField{Value: string(value)}, nil
}
