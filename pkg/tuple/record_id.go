package tuple

import (
	"fmt"

	"heapbase/pkg/primitives"
)

// RecordID addresses a tuple on disk: the page holding it and its slot
// index within that page's slot array.
type RecordID struct {
	PageID  primitives.PageID
	SlotNum int
}

func NewRecordID(pageID primitives.PageID, slotNum int) *RecordID {
	return &RecordID{PageID: pageID, SlotNum: slotNum}
}

func (r *RecordID) Equals(other *RecordID) bool {
	if other == nil {
		return false
	}
	return r.PageID == other.PageID && r.SlotNum == other.SlotNum
}

func (r *RecordID) String() string {
	return fmt.Sprintf("record(%s,slot=%d)", r.PageID, r.SlotNum)
}
