package types

import (
	"bytes"
	"testing"

	"heapbase/pkg/primitives"
)

func TestIntFieldCompare(t *testing.T) {
	a := NewIntField(5)
	b := NewIntField(8)

	tests := []struct {
		op   primitives.Predicate
		want bool
	}{
		{primitives.Equals, false},
		{primitives.LessThan, true},
		{primitives.GreaterThan, false},
		{primitives.LessThanOrEqual, true},
		{primitives.GreaterThanOrEqual, false},
		{primitives.NotEqual, true},
		{primitives.Like, false},
	}
	for _, tt := range tests {
		got, err := a.Compare(tt.op, b)
		if err != nil {
			t.Fatalf("Compare(%v): unexpected error %v", tt.op, err)
		}
		if got != tt.want {
			t.Errorf("5 %s 8 = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestIntFieldLikeIsEquality(t *testing.T) {
	a := NewIntField(7)
	b := NewIntField(7)
	c := NewIntField(9)

	if ok, _ := a.Compare(primitives.Like, b); !ok {
		t.Error("LIKE on equal ints should be true")
	}
	if ok, _ := a.Compare(primitives.Like, c); ok {
		t.Error("LIKE on unequal ints should be false")
	}
}

func TestStringFieldLikeIsSubstring(t *testing.T) {
	s := NewStringField("hello world")
	needle := NewStringField("lo wo")
	miss := NewStringField("xyz")

	if ok, _ := s.Compare(primitives.Like, needle); !ok {
		t.Error("LIKE should match substring")
	}
	if ok, _ := s.Compare(primitives.Like, miss); ok {
		t.Error("LIKE should not match absent substring")
	}
}

func TestIntFieldSerializeParseRoundTrip(t *testing.T) {
	f := NewIntField(-42)
	var buf bytes.Buffer
	if err := f.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != int(IntType.Size()) {
		t.Fatalf("serialized int field is %d bytes, want %d", buf.Len(), IntType.Size())
	}

	parsed, err := Parse(&buf, IntType)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !parsed.Equals(f) {
		t.Errorf("round trip got %v, want %v", parsed, f)
	}
}

func TestStringFieldSerializeParseRoundTrip(t *testing.T) {
	f := NewStringField("hello")
	var buf bytes.Buffer
	if err := f.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != int(StringType.Size()) {
		t.Fatalf("serialized string field is %d bytes, want %d", buf.Len(), StringType.Size())
	}

	parsed, err := Parse(&buf, StringType)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !parsed.Equals(f) {
		t.Errorf("round trip got %v, want %v", parsed, f)
	}
}

func TestStringFieldTruncatesOnConstruction(t *testing.T) {
	long := make([]byte, StringMaxSize+50)
	for i := range long {
		long[i] = 'a'
	}
	f := NewStringField(string(long))
	if len(f.Value) != StringMaxSize {
		t.Errorf("value length = %d, want %d", len(f.Value), StringMaxSize)
	}
}

func TestCompareAcrossTypesIsFalseNotError(t *testing.T) {
	i := NewIntField(1)
	s := NewStringField("1")
	ok, err := i.Compare(primitives.Equals, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("comparing across field types should be false, not true")
	}
}
