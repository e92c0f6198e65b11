package vfs

import "errors"

// Every operation in the core resolves its failure to one of these
// values; nothing in the engine panics on a bad command.
var (
	ErrExists      = errors.New("name already exists")
	ErrNotFound    = errors.New("not found")
	ErrAuthFailed  = errors.New("login failed")
	ErrNotLoggedIn = errors.New("no user logged in")
	ErrAtRoot      = errors.New("already at root directory")
	ErrNotOpen     = errors.New("file not opened")
	ErrAlreadyOpen = errors.New("file already opened")
	ErrDiskFull    = errors.New("not enough disk space")
)
