package heap

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"heapbase/pkg/dberrors"
	"heapbase/pkg/primitives"
	"heapbase/pkg/storage/page"
	"heapbase/pkg/tuple"
	"heapbase/pkg/types"
)

// HeapPage is a slotted page: a header bitmap marking which fixed-width
// slots hold a live tuple, followed by the slot array itself. It
// implements page.Page.
//
// Binary layout (page size P, tuple size S, slot count N, header bytes
// H = ceil(N/8)):
//   [0, H)       header bitmap, bit i%8 of byte i/8
//   [H, H+N*S)   N fixed-width slots, schema-serialized tuple or zeros
//   [H+N*S, P)   zero padding
//
// Grounded on the donor's pkg/storage/heap/page.go for the overall
// shape (pid/td/dirty-tid/before-image fields, RWMutex-guarded
// mutation) but the slot storage itself is reworked to the bitmap
// layout above instead of the donor's slot-pointer (offset+length)
// array, for bit-exact on-disk compatibility with the bitmap format.
type HeapPage struct {
	mutex sync.RWMutex

	pid       PageID
	tupleDesc *tuple.TupleDescription

	numSlots   int
	headerLen  int
	tupleSize  int
	header     []byte
	tuples     []*tuple.Tuple // nil entry == unused slot

	dirtyTid    primitives.TransactionID
	isDirty     bool
	beforeImage []byte
}

// NumSlots computes floor(pageSize*8 / (tupleSize*8 + 1)) for a schema
// whose fixed tuple width is tupleSize bytes.
func NumSlots(tupleSize int) int {
	return (page.PageSize * 8) / (tupleSize*8 + 1)
}

func headerBytes(numSlots int) int {
	return (numSlots + 7) / 8
}

// NewEmptyHeapPage builds a fresh, all-unused page for td — used when a
// HeapFile grows by one page.
func NewEmptyHeapPage(pid PageID, td *tuple.TupleDescription) *HeapPage {
	tupleSize := int(td.Size())
	numSlots := NumSlots(tupleSize)
	h := headerBytes(numSlots)

	return &HeapPage{
		pid:       pid,
		tupleDesc: td,
		numSlots:  numSlots,
		headerLen: h,
		tupleSize: tupleSize,
		header:    make([]byte, h),
		tuples:    make([]*tuple.Tuple, numSlots),
	}
}

// NewHeapPage parses a page.PageSize-byte on-disk image into a HeapPage.
func NewHeapPage(pid PageID, data []byte, td *tuple.TupleDescription) (*HeapPage, error) {
	if len(data) != page.PageSize {
		return nil, fmt.Errorf("heap: page data must be %d bytes, got %d", page.PageSize, len(data))
	}

	hp := NewEmptyHeapPage(pid, td)
	copy(hp.header, data[:hp.headerLen])

	r := bytes.NewReader(data[hp.headerLen:])
	for i := 0; i < hp.numSlots; i++ {
		slot := make([]byte, hp.tupleSize)
		if _, err := io.ReadFull(r, slot); err != nil {
			return nil, fmt.Errorf("heap: read slot %d: %w", i, err)
		}
		if !hp.isSlotUsed(i) {
			continue
		}
		t, err := decodeTuple(slot, td)
		if err != nil {
			return nil, fmt.Errorf("heap: decode slot %d: %w", i, err)
		}
		t.RecordID = tuple.NewRecordID(pid, i)
		hp.tuples[i] = t
	}

	hp.SetBeforeImage()
	return hp, nil
}

func decodeTuple(slot []byte, td *tuple.TupleDescription) (*tuple.Tuple, error) {
	r := bytes.NewReader(slot)
	t := tuple.NewTuple(td)
	for i := 0; i < td.NumFields(); i++ {
		ft, _ := td.FieldType(i)
		f, err := types.Parse(r, ft)
		if err != nil {
			return nil, err
		}
		if err := t.SetField(i, f); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (hp *HeapPage) isSlotUsed(i int) bool {
	return hp.header[i/8]&(1<<uint(i%8)) != 0
}

func (hp *HeapPage) markSlotUsed(i int, used bool) {
	if used {
		hp.header[i/8] |= 1 << uint(i%8)
	} else {
		hp.header[i/8] &^= 1 << uint(i%8)
	}
}

// IsSlotUsed reports whether slot i currently holds a tuple.
func (hp *HeapPage) IsSlotUsed(i int) bool {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.isSlotUsed(i)
}

// NumEmptySlots counts unused slots.
func (hp *HeapPage) NumEmptySlots() int {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	count := 0
	for i := 0; i < hp.numSlots; i++ {
		if !hp.isSlotUsed(i) {
			count++
		}
	}
	return count
}

func (hp *HeapPage) NumSlots() int { return hp.numSlots }

func (hp *HeapPage) ID() primitives.PageID { return hp.pid }

func (hp *HeapPage) TupleDesc() *tuple.TupleDescription { return hp.tupleDesc }

func (hp *HeapPage) IsDirty() (primitives.TransactionID, bool) {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.dirtyTid, hp.isDirty
}

func (hp *HeapPage) MarkDirty(dirty bool, tid primitives.TransactionID) {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()
	hp.isDirty = dirty
	if dirty {
		hp.dirtyTid = tid
	}
}

var errFull = dberrors.New(dberrors.Full, "heap: page full")
var errSchemaMismatch = dberrors.New(dberrors.SchemaMismatch, "heap: tuple schema does not match page schema")
var errNotFound = dberrors.New(dberrors.NotFound, "heap: no matching tuple on page")

// ErrFull, ErrSchemaMismatch, and ErrNotFound let callers use
// dberrors.Is to recognize the three Full/SchemaMismatch/NotFound error
// kinds InsertTuple/DeleteTuple can return.
func ErrFull() error           { return errFull }
func ErrSchemaMismatch() error { return errSchemaMismatch }
func ErrNotFound() error       { return errNotFound }

// InsertTuple places t in the first unused slot, assigns its RecordID,
// and marks the slot used. Fails with errFull if no slot is free or
// errSchemaMismatch if t's schema doesn't match the page's.
func (hp *HeapPage) InsertTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	if !t.TupleDesc.Equals(hp.tupleDesc) {
		return errSchemaMismatch
	}

	for i := 0; i < hp.numSlots; i++ {
		if hp.isSlotUsed(i) {
			continue
		}
		hp.markSlotUsed(i, true)
		t.RecordID = tuple.NewRecordID(hp.pid, i)
		hp.tuples[i] = t
		return nil
	}
	return errFull
}

// DeleteTuple scans used slots for one whose fields equal t's fields,
// and removes the lowest-indexed match. Matching is by field equality,
// not RecordID — a page may need to delete a tuple whose exact slot
// hasn't been independently verified by the caller.
func (hp *HeapPage) DeleteTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	for i := 0; i < hp.numSlots; i++ {
		if !hp.isSlotUsed(i) {
			continue
		}
		if tuplesEqual(hp.tuples[i], t) {
			hp.markSlotUsed(i, false)
			hp.tuples[i] = nil
			return nil
		}
	}
	return errNotFound
}

func tuplesEqual(a, b *tuple.Tuple) bool {
	if a.TupleDesc.NumFields() != b.TupleDesc.NumFields() {
		return false
	}
	for i := 0; i < a.TupleDesc.NumFields(); i++ {
		fa, _ := a.Field(i)
		fb, _ := b.Field(i)
		if fa == nil || fb == nil || !fa.Equals(fb) {
			return false
		}
	}
	return true
}

// Tuples returns the used-slot tuples in ascending slot order.
func (hp *HeapPage) Tuples() []*tuple.Tuple {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	out := make([]*tuple.Tuple, 0, hp.numSlots-hp.emptyCountLocked())
	for i := 0; i < hp.numSlots; i++ {
		if hp.isSlotUsed(i) {
			out = append(out, hp.tuples[i])
		}
	}
	return out
}

func (hp *HeapPage) emptyCountLocked() int {
	count := 0
	for i := 0; i < hp.numSlots; i++ {
		if !hp.isSlotUsed(i) {
			count++
		}
	}
	return count
}

// Data serializes the page back to a page.PageSize-byte image:
// header, then each slot (tuple bytes or zero padding), then trailing
// zero padding to fill the page.
func (hp *HeapPage) Data() []byte {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	buf := make([]byte, page.PageSize)
	copy(buf, hp.header)

	offset := hp.headerLen
	for i := 0; i < hp.numSlots; i++ {
		if hp.isSlotUsed(i) {
			var b bytes.Buffer
			t := hp.tuples[i]
			for f := 0; f < t.TupleDesc.NumFields(); f++ {
				field, _ := t.Field(f)
				_ = field.Serialize(&b)
			}
			copy(buf[offset:offset+hp.tupleSize], b.Bytes())
		}
		offset += hp.tupleSize
	}
	return buf
}

// BeforeImage reconstructs a standalone HeapPage from the byte snapshot
// saved by the last SetBeforeImage call — the image the page had
// before the current transaction's modifications.
func (hp *HeapPage) BeforeImage() page.Page {
	hp.mutex.RLock()
	snapshot := hp.beforeImage
	hp.mutex.RUnlock()

	if snapshot == nil {
		// No prior snapshot: the page was built empty by
		// NewEmptyHeapPage and has no on-disk image yet, so its
		// before-image is the all-zero (empty) page.
		snapshot = make([]byte, page.PageSize)
	}

	before, err := NewHeapPage(hp.pid, snapshot, hp.tupleDesc)
	if err != nil {
		// A page that serialized itself cannot fail to parse back.
		panic(fmt.Sprintf("heap: corrupt before-image for %s: %v", hp.pid, err))
	}
	return before
}

// SetBeforeImage snapshots the page's current serialized bytes as its
// new before-image. Called once a transaction that wrote this page
// commits, so the next transaction's writes have a correct undo image.
func (hp *HeapPage) SetBeforeImage() {
	data := hp.Data()
	hp.mutex.Lock()
	hp.beforeImage = data
	hp.mutex.Unlock()
}
