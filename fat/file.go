package fat

import (
	"github.com/google/uuid"
	"github.com/rstms/vfs"
)

// File implements vfs.File. The decoded content is cached on the
// node; the allocation table and block device hold the backing bytes.
// Every write updates both together so they cannot diverge.
type File struct {
	table   *Table
	id      uuid.UUID
	content []byte
}

// ensure File implements vfs.File
var _ vfs.File = (*File)(nil)

// Write appends p to the file. On vfs.ErrDiskFull nothing is
// committed: the extent, the device, and the cached content are all
// left unchanged.
func (f *File) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if err := f.table.Append(f.id, p); err != nil {
		return 0, err
	}
	f.content = append(f.content, p...)

	return len(p), nil
}

func (f *File) ID() uuid.UUID {
	return f.id
}

func (f *File) Contents() string {
	return string(f.content)
}

func (f *File) Size() int {
	return len(f.content)
}
