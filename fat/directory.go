package fat

import (
	"github.com/google/uuid"
	"github.com/rstms/vfs"
)

// Directory implements vfs.Directory over in-memory nodes. Children
// keep insertion order, and a name appears at most once regardless of
// entry kind.
type Directory struct {
	fs      *FileSystem
	entries []*DirectoryEntry
}

// ensure Directory implements vfs.Directory
var _ vfs.Directory = (*Directory)(nil)

// DirectoryEntry implements vfs.DirectoryEntry and represents a
// single named child: a subdirectory or a file, never both.
type DirectoryEntry struct {
	name string
	dir  *Directory
	file *File
}

// ensure DirectoryEntry implements vfs.DirectoryEntry
var _ vfs.DirectoryEntry = (*DirectoryEntry)(nil)

func (d *DirectoryEntry) Name() string {
	return d.name
}

func (d *DirectoryEntry) IsDir() bool {
	return d.dir != nil
}

func (d *DirectoryEntry) Dir() (vfs.Directory, error) {
	if d.dir == nil {
		return nil, Fatalf("not a directory: %s", d.name)
	}

	return d.dir, nil
}

func (d *DirectoryEntry) File() (vfs.File, error) {
	if d.file == nil {
		return nil, Fatalf("not a file: %s", d.name)
	}

	return d.file, nil
}

func (d *Directory) Entry(name string) vfs.DirectoryEntry {
	for _, entry := range d.entries {
		if entry.name == name {
			return entry
		}
	}

	return nil
}

func (d *Directory) Entries() []vfs.DirectoryEntry {
	result := make([]vfs.DirectoryEntry, 0, len(d.entries))
	for _, entry := range d.entries {
		result = append(result, entry)
	}

	return result
}

func (d *Directory) AddDirectory(name string) (vfs.DirectoryEntry, error) {
	if d.Entry(name) != nil {
		return nil, vfs.ErrExists
	}

	entry := &DirectoryEntry{
		name: name,
		dir:  &Directory{fs: d.fs},
	}
	d.entries = append(d.entries, entry)

	return entry, nil
}

func (d *Directory) AddFile(name string) (vfs.DirectoryEntry, error) {
	if d.Entry(name) != nil {
		return nil, vfs.ErrExists
	}

	id := uuid.New()
	if err := d.fs.table.Allocate(id); err != nil {
		return nil, Fatal(err)
	}

	entry := &DirectoryEntry{
		name: name,
		file: &File{table: d.fs.table, id: id},
	}
	d.entries = append(d.entries, entry)

	return entry, nil
}

// Remove deletes the named entry. A removed directory takes its whole
// subtree with it; every file allocation below the removed edge is
// released so the table never holds records for unreachable files.
func (d *Directory) Remove(name string) error {
	for i, entry := range d.entries {
		if entry.name != name {
			continue
		}

		if err := releaseEntry(entry); err != nil {
			return Fatal(err)
		}
		d.entries = append(d.entries[:i], d.entries[i+1:]...)

		return nil
	}

	return vfs.ErrNotFound
}

func releaseEntry(entry *DirectoryEntry) error {
	if entry.file != nil {
		return entry.file.table.Release(entry.file.id)
	}

	for _, child := range entry.dir.entries {
		if err := releaseEntry(child); err != nil {
			return err
		}
	}

	return nil
}
