package vfs

import (
	"fmt"
	"io"
)

// A BlockDevice provides random access to a fixed span of bytes
// representing a disk.
type BlockDevice interface {
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Len returns the total size of the device in bytes.
	Len() int64
}

// MemDisk is a BlockDevice backed by a zero-initialized in-memory
// buffer. It simulates a single fixed-size disk; contents vanish when
// the process exits.
type MemDisk struct {
	buf []byte
}

// NewMemDisk creates an in-memory disk of the given size in bytes.
func NewMemDisk(size int64) (*MemDisk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid disk size: %d", size)
	}

	return &MemDisk{buf: make([]byte, size)}, nil
}

func (d *MemDisk) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(d.buf)) {
		return 0, fmt.Errorf("read offset out of range: %d", off)
	}

	n := copy(p, d.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (d *MemDisk) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(d.buf)) {
		return 0, fmt.Errorf("write beyond end of disk: offset=%d len=%d", off, len(p))
	}

	return copy(d.buf[off:], p), nil
}

func (d *MemDisk) Len() int64 {
	return int64(len(d.buf))
}

func (d *MemDisk) Close() error {
	return nil
}
