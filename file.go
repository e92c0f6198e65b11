package vfs

import (
	"io"

	"github.com/google/uuid"
)

// File is an entry in a filesystem that stores content. Writes are
// append-only; the full content is available through Contents.
type File interface {
	io.Writer

	// ID returns the stable identifier assigned when the file was
	// created. Allocation records and open-file bookkeeping key off
	// this identifier, never the display name.
	ID() uuid.UUID

	// Contents returns the full decoded content of the file.
	Contents() string

	// Size returns the content length in bytes.
	Size() int
}
