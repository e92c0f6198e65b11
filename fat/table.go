package fat

import (
	"github.com/google/uuid"
	"github.com/rstms/vfs"
)

// Extent is a half-open byte range [Start, End) on the block device.
type Extent struct {
	Start int64
	End   int64
}

func (e Extent) Size() int64 {
	return e.End - e.Start
}

func (e Extent) Empty() bool {
	return e.Start == e.End
}

// TableEntry is one allocation record as reported by Entries.
type TableEntry struct {
	ID uuid.UUID
	Extent
}

// Table is the file allocation table: a mapping from file identifier
// to the extent holding that file's bytes, plus a free-extent list
// over the device. Freed ranges are zero-filled, returned to the free
// list, and coalesced with their neighbors, so releasing a file can
// never clobber another file's bytes.
type Table struct {
	device  vfs.BlockDevice
	extents map[uuid.UUID]Extent
	order   []uuid.UUID
	free    []Extent
}

// NewTable creates an allocation table managing the whole device.
func NewTable(device vfs.BlockDevice) *Table {
	return &Table{
		device:  device,
		extents: make(map[uuid.UUID]Extent),
		free:    []Extent{{Start: 0, End: device.Len()}},
	}
}

// Allocate registers a zero-length extent for a newly created file.
// No space is committed until the first append.
func (t *Table) Allocate(id uuid.UUID) error {
	if _, ok := t.extents[id]; ok {
		return Fatalf("allocation already exists: %s", id)
	}

	cursor := t.device.Len()
	if len(t.free) > 0 {
		cursor = t.free[0].Start
	}

	t.extents[id] = Extent{Start: cursor, End: cursor}
	t.order = append(t.order, id)

	return nil
}

// Append writes p after the file's current bytes and grows its
// extent. When the extent cannot grow in place the content is
// relocated to a large-enough free extent. Returns vfs.ErrDiskFull,
// with no bytes committed, when no extent can hold the result.
func (t *Table) Append(id uuid.UUID, p []byte) error {
	ext, ok := t.extents[id]
	if !ok {
		return Fatalf("no allocation for file: %s", id)
	}

	n := int64(len(p))
	if n == 0 {
		return nil
	}

	if ext.Empty() {
		start, ok := t.carve(n)
		if !ok {
			return vfs.ErrDiskFull
		}
		if _, err := t.device.WriteAt(p, start); err != nil {
			return Fatal(err)
		}
		t.extents[id] = Extent{Start: start, End: start + n}
		return nil
	}

	// Grow in place when the range past the extent is free.
	if t.carveAt(ext.End, n) {
		if _, err := t.device.WriteAt(p, ext.End); err != nil {
			return Fatal(err)
		}
		t.extents[id] = Extent{Start: ext.Start, End: ext.End + n}
		return nil
	}

	// Relocate: the new extent must hold the old bytes plus p.
	need := ext.Size() + n
	start, ok := t.carve(need)
	if !ok {
		return vfs.ErrDiskFull
	}

	old := make([]byte, ext.Size())
	if _, err := t.device.ReadAt(old, ext.Start); err != nil {
		return Fatal(err)
	}
	if _, err := t.device.WriteAt(old, start); err != nil {
		return Fatal(err)
	}
	if _, err := t.device.WriteAt(p, start+ext.Size()); err != nil {
		return Fatal(err)
	}

	if err := t.scrub(ext); err != nil {
		return Fatal(err)
	}
	t.addFree(ext)
	t.extents[id] = Extent{Start: start, End: start + need}

	return nil
}

// Release zero-fills the file's extent, removes its record, and
// returns the range to the free list.
func (t *Table) Release(id uuid.UUID) error {
	ext, ok := t.extents[id]
	if !ok {
		return Fatalf("no allocation for file: %s", id)
	}

	if err := t.scrub(ext); err != nil {
		return Fatal(err)
	}

	delete(t.extents, id)
	for i, other := range t.order {
		if other == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.addFree(ext)

	return nil
}

// Extent returns the current allocation record for a file.
func (t *Table) Extent(id uuid.UUID) (Extent, bool) {
	ext, ok := t.extents[id]
	return ext, ok
}

// Usage returns the number of allocated bytes and the device size.
func (t *Table) Usage() (int64, int64) {
	var used int64
	for _, ext := range t.extents {
		used += ext.Size()
	}

	return used, t.device.Len()
}

// Entries returns all allocation records in creation order.
func (t *Table) Entries() []TableEntry {
	result := make([]TableEntry, 0, len(t.order))
	for _, id := range t.order {
		result = append(result, TableEntry{ID: id, Extent: t.extents[id]})
	}

	return result
}

// Len returns the number of allocation records.
func (t *Table) Len() int {
	return len(t.order)
}

func (t *Table) scrub(ext Extent) error {
	if ext.Empty() {
		return nil
	}

	_, err := t.device.WriteAt(make([]byte, ext.Size()), ext.Start)
	return err
}

// carve takes n bytes from the front of the first free extent that
// fits.
func (t *Table) carve(n int64) (int64, bool) {
	for i, f := range t.free {
		if f.Size() >= n {
			start := f.Start
			t.free[i].Start += n
			if t.free[i].Empty() {
				t.free = append(t.free[:i], t.free[i+1:]...)
			}
			return start, true
		}
	}

	return 0, false
}

// carveAt takes n bytes from a free extent beginning exactly at off.
func (t *Table) carveAt(off, n int64) bool {
	for i, f := range t.free {
		if f.Start == off && f.Size() >= n {
			t.free[i].Start += n
			if t.free[i].Empty() {
				t.free = append(t.free[:i], t.free[i+1:]...)
			}
			return true
		}
	}

	return false
}

// addFree returns an extent to the free list, keeping the list sorted
// by start offset and merging adjacent ranges.
func (t *Table) addFree(ext Extent) {
	if ext.Empty() {
		return
	}

	i := 0
	for i < len(t.free) && t.free[i].Start < ext.Start {
		i++
	}

	t.free = append(t.free, Extent{})
	copy(t.free[i+1:], t.free[i:])
	t.free[i] = ext

	// Merge with the following extent, then the preceding one.
	if i+1 < len(t.free) && t.free[i].End == t.free[i+1].Start {
		t.free[i].End = t.free[i+1].End
		t.free = append(t.free[:i+1], t.free[i+2:]...)
	}
	if i > 0 && t.free[i-1].End == t.free[i].Start {
		t.free[i-1].End = t.free[i].End
		t.free = append(t.free[:i], t.free[i+1:]...)
	}
}
