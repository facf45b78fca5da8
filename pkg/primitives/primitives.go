// Package primitives holds small value types shared across the storage
// engine: transaction identity, the predicate operator set, and a stable
// 32-bit hash code type.
package primitives

import "fmt"

// TableID identifies a table (and its backing HeapFile) within a Catalog.
// It is the hash of the file's absolute path, so it is stable across
// process restarts as long as the path does not change.
type TableID uint64

// PageNumber is a zero-based page index within a HeapFile.
type PageNumber uint64

// HashCode is a 32-bit hash type. No package currently uses it: Field
// values hash to a plain uint32, the aggregator groups by a field's
// string form, and PageID is a plain comparable struct that needs no
// separate hash type.
type HashCode uint32

// Predicate enumerates the comparison operators a Field can evaluate in
// Compare. Integer and string fields interpret Like differently; every
// other operator has the same meaning across types.
type Predicate int

const (
	Equals Predicate = iota
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	NotEqual
	Like
)

func (p Predicate) String() string {
	switch p {
	case Equals:
		return "="
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanOrEqual:
		return "<="
	case GreaterThanOrEqual:
		return ">="
	case NotEqual:
		return "<>"
	case Like:
		return "LIKE"
	default:
		return fmt.Sprintf("Predicate(%d)", int(p))
	}
}

// TransactionID identifies one transaction. The zero value is never
// issued by transaction.New, so a nil-ish TransactionID{} reliably
// signals "no transaction" where that matters.
type TransactionID struct {
	id int64
}

// TransactionIDFromValue wraps a raw counter value in a TransactionID.
// Only the transaction package should call this; everyone else obtains
// identities from transaction.New.
func TransactionIDFromValue(id int64) TransactionID {
	return TransactionID{id: id}
}

func (t TransactionID) Raw() int64 { return t.id }

func (t TransactionID) String() string {
	return fmt.Sprintf("txn-%d", t.id)
}

func (t TransactionID) Equals(other TransactionID) bool {
	return t.id == other.id
}

// PageID identifies one page: (tableId, pageNumber). It is a plain
// comparable struct, not an interface wrapping a pointer, so it can be
// used directly as a Go map key with correct value equality — the
// donor's equivalent (tuple.PageID, an interface satisfied by a
// *HeapPageID pointer) would compare by pointer identity as a map key,
// which is wrong for two distinct PageID values describing the same
// page. See DESIGN.md for the map-key-equality bug this sidesteps.
type PageID struct {
	TableID    TableID
	PageNumber PageNumber
}

func (p PageID) String() string {
	return fmt.Sprintf("page(table=%d,num=%d)", p.TableID, p.PageNumber)
}
