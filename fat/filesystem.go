package fat

import (
	"github.com/google/uuid"
	"github.com/rstms/vfs"
)

// FileSystem is the in-memory implementation of vfs.FileSystem. Each
// user namespace gets its own FileSystem; all of them share a single
// allocation table and block device.
type FileSystem struct {
	table   *Table
	rootDir *Directory
}

// New returns a new FileSystem with an empty root directory, backed
// by the given allocation table.
func New(table *Table) *FileSystem {
	result := &FileSystem{table: table}
	result.rootDir = &Directory{fs: result}

	return result
}

func (f *FileSystem) RootDir() (vfs.Directory, error) {
	return f.rootDir, nil
}

func (f *FileSystem) Info() (map[string]any, error) {
	used, total := f.table.Usage()
	info := map[string]any{
		"used_bytes":  used,
		"total_bytes": total,
		"allocations": f.table.Len(),
	}

	return info, nil
}

// Table returns the shared allocation table.
func (f *FileSystem) Table() *Table {
	return f.table
}

// PathOf resolves a file identifier to its name and full path within
// this namespace by walking the tree. Resolution is by node identity,
// so same-named files in different directories never shadow each
// other.
func (f *FileSystem) PathOf(id uuid.UUID) (name, path string, found bool) {
	return pathWalk(f.rootDir, "", id)
}

func pathWalk(dir *Directory, prefix string, id uuid.UUID) (string, string, bool) {
	for _, entry := range dir.entries {
		path := prefix + "/" + entry.name
		if entry.file != nil && entry.file.id == id {
			return entry.name, path, true
		}
		if entry.dir != nil {
			if name, path, found := pathWalk(entry.dir, path, id); found {
				return name, path, true
			}
		}
	}

	return "", "", false
}
