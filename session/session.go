// Package session tracks registered accounts and the single active
// session: the logged-in user, the working-directory path stack, and
// the open-file table. All namespace and file operations run against
// the active user's tree.
package session

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rstms/vfs"
	"github.com/rstms/vfs/fat"
	"go.uber.org/zap"
)

// Account is one registered user: credentials plus a private
// namespace rooted at its own empty directory. Passwords are stored
// and compared verbatim; the simulation carries no real credential
// security.
type Account struct {
	Username string
	Password string
	fs       *fat.FileSystem
}

type openFile struct {
	name string
	file vfs.File
}

// Store owns the account table and the session state. Every user
// namespace shares the one allocation table and block device.
type Store struct {
	device   vfs.BlockDevice
	table    *fat.Table
	accounts map[string]*Account
	logger   *zap.Logger

	current *Account
	path    []string
	open    []*openFile
}

// NewStore creates a store managing the given device. A nil logger
// disables logging.
func NewStore(device vfs.BlockDevice, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{
		device:   device,
		table:    fat.NewTable(device),
		accounts: make(map[string]*Account),
		logger:   logger,
	}
}

// Table returns the shared allocation table.
func (s *Store) Table() *fat.Table {
	return s.table
}

// Register creates a new account with an empty root directory.
func (s *Store) Register(username, password string) error {
	if _, ok := s.accounts[username]; ok {
		return vfs.ErrExists
	}

	s.accounts[username] = &Account{
		Username: username,
		Password: password,
		fs:       fat.New(s.table),
	}
	s.logger.Info("registered user", zap.String("user", username))

	return nil
}

// Login authenticates and makes the user's root the working
// directory. The path stack and the open-file table reset; open files
// never leak across sessions.
func (s *Store) Login(username, password string) error {
	acct, ok := s.accounts[username]
	if !ok || acct.Password != password {
		return vfs.ErrAuthFailed
	}

	s.current = acct
	s.path = nil
	s.open = nil
	s.logger.Info("user logged in", zap.String("user", username))

	return nil
}

// Logout clears the session state and returns the username that was
// logged out.
func (s *Store) Logout() (string, error) {
	if s.current == nil {
		return "", vfs.ErrNotLoggedIn
	}

	username := s.current.Username
	s.current = nil
	s.path = nil
	s.open = nil
	s.logger.Info("user logged out", zap.String("user", username))

	return username, nil
}

// CurrentUser returns the logged-in username, or "" without a
// session.
func (s *Store) CurrentUser() string {
	if s.current == nil {
		return ""
	}

	return s.current.Username
}

// Path returns the working directory as a slash-separated absolute
// path within the user's namespace.
func (s *Store) Path() string {
	return "/" + strings.Join(s.path, "/")
}

// workingDir re-walks from the user's root along the path stack.
// There is no cached parent reference; the stack is the only record
// of where the session is.
func (s *Store) workingDir() (vfs.Directory, error) {
	if s.current == nil {
		return nil, vfs.ErrNotLoggedIn
	}

	dir, err := s.current.fs.RootDir()
	if err != nil {
		return nil, Fatal(err)
	}
	for _, name := range s.path {
		entry := dir.Entry(name)
		if entry == nil || !entry.IsDir() {
			return nil, Fatalf("stale path element: %s", name)
		}
		dir, err = entry.Dir()
		if err != nil {
			return nil, Fatal(err)
		}
	}

	return dir, nil
}

// List returns the names in the working directory in insertion
// order.
func (s *Store) List() ([]string, error) {
	dir, err := s.workingDir()
	if err != nil {
		return nil, err
	}

	entries := dir.Entries()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// Mkdir creates an empty subdirectory in the working directory.
func (s *Store) Mkdir(name string) error {
	dir, err := s.workingDir()
	if err != nil {
		return err
	}

	_, err = dir.AddDirectory(name)
	return err
}

// Rmdir removes a subdirectory and discards its whole subtree.
func (s *Store) Rmdir(name string) error {
	dir, err := s.workingDir()
	if err != nil {
		return err
	}

	entry := dir.Entry(name)
	if entry == nil || !entry.IsDir() {
		return vfs.ErrNotFound
	}
	s.dropOpenUnder(entry)

	return dir.Remove(name)
}

// Chdir descends into a child directory, or pops one path element for
// "..".
func (s *Store) Chdir(name string) error {
	dir, err := s.workingDir()
	if err != nil {
		return err
	}

	if name == ".." {
		if len(s.path) == 0 {
			return vfs.ErrAtRoot
		}
		s.path = s.path[:len(s.path)-1]
		return nil
	}

	entry := dir.Entry(name)
	if entry == nil || !entry.IsDir() {
		return vfs.ErrNotFound
	}
	s.path = append(s.path, name)

	return nil
}

// Create adds an empty file to the working directory and registers
// its zero-length allocation.
func (s *Store) Create(name string) error {
	dir, err := s.workingDir()
	if err != nil {
		return err
	}

	if _, err := dir.AddFile(name); err != nil {
		return err
	}
	s.logger.Debug("created file", zap.String("name", name), zap.String("path", s.Path()))

	return nil
}

// Delete removes a file from the working directory and releases its
// allocation. An open file is dropped from the open-file table as it
// goes.
func (s *Store) Delete(name string) error {
	dir, err := s.workingDir()
	if err != nil {
		return err
	}

	entry := dir.Entry(name)
	if entry == nil || entry.IsDir() {
		return vfs.ErrNotFound
	}
	s.dropOpenUnder(entry)

	if err := dir.Remove(name); err != nil {
		return err
	}
	s.logger.Debug("deleted file", zap.String("name", name))

	return nil
}

// Open registers a file from the working directory in the open-file
// table.
func (s *Store) Open(name string) error {
	dir, err := s.workingDir()
	if err != nil {
		return err
	}

	entry := dir.Entry(name)
	if entry == nil || entry.IsDir() {
		return vfs.ErrNotFound
	}
	file, err := entry.File()
	if err != nil {
		return Fatal(err)
	}
	if s.openByID(file.ID()) != nil {
		return vfs.ErrAlreadyOpen
	}
	s.open = append(s.open, &openFile{name: name, file: file})

	return nil
}

// Close removes a file from the open-file table. The name resolves
// the same way Read and Write resolve it, and the matched entry is
// removed by identity, so closing never hits a same-named open file
// from another directory.
func (s *Store) Close(name string) error {
	if s.current == nil {
		return vfs.ErrNotLoggedIn
	}

	of := s.lookupOpen(name)
	if of == nil {
		return vfs.ErrNotOpen
	}

	for i, other := range s.open {
		if other.file.ID() == of.file.ID() {
			s.open = append(s.open[:i], s.open[i+1:]...)
			break
		}
	}

	return nil
}

// Read returns the content of an opened file.
func (s *Store) Read(name string) (string, error) {
	if s.current == nil {
		return "", vfs.ErrNotLoggedIn
	}

	of := s.lookupOpen(name)
	if of == nil {
		return "", vfs.ErrNotOpen
	}

	return of.file.Contents(), nil
}

// Write appends content to an opened file. The cached content and the
// allocation record move together; a full disk rejects the write with
// vfs.ErrDiskFull and changes nothing.
func (s *Store) Write(name, content string) error {
	if s.current == nil {
		return vfs.ErrNotLoggedIn
	}

	of := s.lookupOpen(name)
	if of == nil {
		return vfs.ErrNotOpen
	}

	if _, err := of.file.Write([]byte(content)); err != nil {
		return err
	}
	s.logger.Debug("wrote file", zap.String("name", name), zap.Int("bytes", len(content)))

	return nil
}

// DiskUsage returns allocated bytes and the disk size.
func (s *Store) DiskUsage() (int64, int64) {
	return s.table.Usage()
}

// FATEntry is one allocation record with its tree location resolved.
type FATEntry struct {
	Name  string
	Path  string
	Owner string
	Start int64
	End   int64
}

// FATReport resolves every allocation record to its owning account
// and full path, in creation order. Resolution walks the trees by
// file identity, so same-named files in different directories stay
// distinct.
func (s *Store) FATReport() ([]FATEntry, error) {
	if s.current == nil {
		return nil, vfs.ErrNotLoggedIn
	}

	accounts := s.resolutionOrder()
	entries := s.table.Entries()
	report := make([]FATEntry, 0, len(entries))
	for _, te := range entries {
		fe := FATEntry{Name: "?", Path: "unknown", Start: te.Start, End: te.End}
		for _, acct := range accounts {
			if name, path, found := acct.fs.PathOf(te.ID); found {
				fe.Name = name
				fe.Path = path
				fe.Owner = acct.Username
				break
			}
		}
		report = append(report, fe)
	}

	return report, nil
}

// resolutionOrder lists accounts with the logged-in user first, the
// rest sorted by username.
func (s *Store) resolutionOrder() []*Account {
	result := []*Account{s.current}
	names := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		if name != s.current.Username {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		result = append(result, s.accounts[name])
	}

	return result
}

func (s *Store) openByID(id uuid.UUID) *openFile {
	for _, of := range s.open {
		if of.file.ID() == id {
			return of
		}
	}

	return nil
}

// lookupOpen finds an open file by display name. A name present in
// the working directory resolves by identity, so an unopened local
// file never aliases an open one from another directory; names absent
// from the working directory fall back to the open-file table itself.
func (s *Store) lookupOpen(name string) *openFile {
	if dir, err := s.workingDir(); err == nil {
		if entry := dir.Entry(name); entry != nil && !entry.IsDir() {
			if file, err := entry.File(); err == nil {
				return s.openByID(file.ID())
			}
		}
	}

	for _, of := range s.open {
		if of.name == name {
			return of
		}
	}

	return nil
}

// dropOpenUnder removes the entry's file, or every file below a
// directory entry, from the open-file table.
func (s *Store) dropOpenUnder(entry vfs.DirectoryEntry) {
	if !entry.IsDir() {
		if file, err := entry.File(); err == nil {
			for i, of := range s.open {
				if of.file.ID() == file.ID() {
					s.open = append(s.open[:i], s.open[i+1:]...)
					break
				}
			}
		}
		return
	}

	if dir, err := entry.Dir(); err == nil {
		for _, child := range dir.Entries() {
			s.dropOpenUnder(child)
		}
	}
}
