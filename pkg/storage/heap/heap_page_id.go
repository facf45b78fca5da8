// Package heap implements the slotted heap page format and the
// file/iterator that manage a table's pages on disk. Grounded on the
// donor's pkg/storage/heap, reworked from its PostgreSQL-style
// slot-pointer layout to a header-bitmap layout for on-disk compatibility.
package heap

import "heapbase/pkg/primitives"

// PageID is the (tableId, pageNumber) identity of a heap page. It is a
// plain alias for primitives.PageID: a comparable struct, safe to use
// directly as a map key, with value equality baked in by the language
// rather than a hand-written Equals/HashCode pair.
type PageID = primitives.PageID

func NewPageID(tableID primitives.TableID, pageNumber primitives.PageNumber) PageID {
	return PageID{TableID: tableID, PageNumber: pageNumber}
}
