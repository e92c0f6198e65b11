package fat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rstms/vfs"
	"github.com/stretchr/testify/require"
)

func TestFileSystemImplementsFileSystem(t *testing.T) {
	var raw interface{}
	raw = new(FileSystem)
	if _, ok := raw.(vfs.FileSystem); !ok {
		t.Fatal("FileSystem should be a FileSystem")
	}
}

func testFs(t *testing.T) (*FileSystem, *Table) {
	disk, err := vfs.NewMemDisk(1024)
	require.Nil(t, err)
	table := NewTable(disk)
	return New(table), table
}

func TestRootDirStartsEmpty(t *testing.T) {
	fs, _ := testFs(t)

	root, err := fs.RootDir()
	require.Nil(t, err)
	require.Empty(t, root.Entries())
	require.Nil(t, root.Entry("anything"))
}

func TestAddEntriesKeepInsertionOrder(t *testing.T) {
	fs, _ := testFs(t)
	root, _ := fs.RootDir()

	_, err := root.AddFile("zebra")
	require.Nil(t, err)
	_, err = root.AddDirectory("apple")
	require.Nil(t, err)
	_, err = root.AddFile("mango")
	require.Nil(t, err)

	names := []string{}
	for _, entry := range root.Entries() {
		names = append(names, entry.Name())
	}
	require.Equal(t, []string{"zebra", "apple", "mango"}, names)
}

func TestNameCollisionAcrossKinds(t *testing.T) {
	fs, _ := testFs(t)
	root, _ := fs.RootDir()

	_, err := root.AddFile("x")
	require.Nil(t, err)

	_, err = root.AddFile("x")
	require.Equal(t, vfs.ErrExists, err)
	_, err = root.AddDirectory("x")
	require.Equal(t, vfs.ErrExists, err)

	_, err = root.AddDirectory("y")
	require.Nil(t, err)
	_, err = root.AddFile("y")
	require.Equal(t, vfs.ErrExists, err)

	require.Equal(t, 2, len(root.Entries()))
}

func TestEntryKindDispatch(t *testing.T) {
	fs, _ := testFs(t)
	root, _ := fs.RootDir()

	fileEntry, err := root.AddFile("f")
	require.Nil(t, err)
	dirEntry, err := root.AddDirectory("d")
	require.Nil(t, err)

	require.False(t, fileEntry.IsDir())
	require.True(t, dirEntry.IsDir())

	_, err = fileEntry.Dir()
	require.NotNil(t, err)
	_, err = dirEntry.File()
	require.NotNil(t, err)

	_, err = fileEntry.File()
	require.Nil(t, err)
	_, err = dirEntry.Dir()
	require.Nil(t, err)
}

func TestFileWriteAppends(t *testing.T) {
	fs, table := testFs(t)
	root, _ := fs.RootDir()

	entry, err := root.AddFile("notes")
	require.Nil(t, err)
	file, err := entry.File()
	require.Nil(t, err)

	_, err = file.Write([]byte("hello"))
	require.Nil(t, err)
	_, err = file.Write([]byte(" again"))
	require.Nil(t, err)

	require.Equal(t, "hello again", file.Contents())
	require.Equal(t, 11, file.Size())

	ext, ok := table.Extent(file.ID())
	require.True(t, ok)
	require.Equal(t, int64(11), ext.Size())
}

func TestRemoveMissingEntry(t *testing.T) {
	fs, _ := testFs(t)
	root, _ := fs.RootDir()

	require.Equal(t, vfs.ErrNotFound, root.Remove("ghost"))
}

func TestRemoveDirectoryReleasesSubtree(t *testing.T) {
	fs, table := testFs(t)
	root, _ := fs.RootDir()

	entry, err := root.AddDirectory("docs")
	require.Nil(t, err)
	docs, err := entry.Dir()
	require.Nil(t, err)

	for _, name := range []string{"a", "b"} {
		fileEntry, err := docs.AddFile(name)
		require.Nil(t, err)
		file, err := fileEntry.File()
		require.Nil(t, err)
		_, err = file.Write([]byte("data"))
		require.Nil(t, err)
	}

	subEntry, err := docs.AddDirectory("sub")
	require.Nil(t, err)
	sub, err := subEntry.Dir()
	require.Nil(t, err)
	_, err = sub.AddFile("c")
	require.Nil(t, err)

	require.Equal(t, 3, table.Len())

	require.Nil(t, root.Remove("docs"))
	require.Zero(t, table.Len())
	used, _ := table.Usage()
	require.Zero(t, used)
	require.Nil(t, root.Entry("docs"))
}

func TestPathOfResolvesByIdentity(t *testing.T) {
	fs, _ := testFs(t)
	root, _ := fs.RootDir()

	entry, _ := root.AddDirectory("docs")
	docs, _ := entry.Dir()
	entry, _ = docs.AddDirectory("notes")
	notes, _ := entry.Dir()

	// Same display name in two directories.
	topEntry, err := root.AddFile("todo")
	require.Nil(t, err)
	deepEntry, err := notes.AddFile("todo")
	require.Nil(t, err)

	topFile, _ := topEntry.File()
	deepFile, _ := deepEntry.File()

	name, path, found := fs.PathOf(deepFile.ID())
	require.True(t, found)
	require.Equal(t, "todo", name)
	require.Equal(t, "/docs/notes/todo", path)

	_, path, found = fs.PathOf(topFile.ID())
	require.True(t, found)
	require.Equal(t, "/todo", path)

	_, _, found = fs.PathOf(uuid.New())
	require.False(t, found)
}

func TestInfo(t *testing.T) {
	fs, _ := testFs(t)
	root, _ := fs.RootDir()

	entry, _ := root.AddFile("f")
	file, _ := entry.File()
	_, err := file.Write([]byte("12345"))
	require.Nil(t, err)

	info, err := fs.Info()
	require.Nil(t, err)
	require.Equal(t, int64(5), info["used_bytes"])
	require.Equal(t, int64(1024), info["total_bytes"])
	require.Equal(t, 1, info["allocations"])
}
