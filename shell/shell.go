// Package shell turns command lines into session operations and
// renders their outcomes as text. Every failure resolves to a
// message; nothing a user types can make the dispatcher fall over.
package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rstms/vfs"
	"github.com/rstms/vfs/session"
)

const invalidCommand = "Invalid command or incorrect number of arguments."
const notLoggedIn = "No user currently logged in."

// Shell dispatches command lines against a session store.
type Shell struct {
	store *session.Store
}

func New(store *session.Store) *Shell {
	return &Shell{store: store}
}

// Commands lists every recognized command name, for completion.
func Commands() []string {
	return []string{
		"register", "login", "logout", "dir", "create", "del",
		"open", "close", "read", "write", "cd", "md", "rd",
		"diskusage", "showfat", "help", "exit",
	}
}

// Banner returns the startup help text.
func Banner() string {
	return strings.Join([]string{
		"Welcome to the Virtual File System. Here are the available commands:",
		"  register [username] [password]   - Register a new user",
		"  login [username] [password]      - Login as a user",
		"  logout                           - Logout from the current user",
		"  dir                              - List directories and files",
		"  create [filename]                - Create a new file",
		"  del [filename]                   - Delete a file",
		"  open [filename]                  - Open a file",
		"  close [filename]                 - Close an opened file",
		"  read [filename]                  - Read a file's content",
		"  write [filename] [content]       - Write content to a file",
		"  cd [dirname]                     - Change directory",
		"  md [dirname]                     - Make a new directory",
		"  rd [dirname]                     - Remove a directory",
		"  diskusage                        - Display disk usage",
		"  showfat                          - Show FAT table",
		"Type 'exit' to quit the program.",
	}, "\n")
}

// Dispatch parses one command line, runs it, and returns the text to
// print.
func (s *Shell) Dispatch(line string) string {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "No command entered."
	}
	cmd := strings.ToLower(args[0])
	args = args[1:]

	switch {
	case cmd == "register" && len(args) == 2:
		return s.register(args[0], args[1])
	case cmd == "login" && len(args) == 2:
		return s.login(args[0], args[1])
	case cmd == "logout" && len(args) == 0:
		return s.logout()
	case cmd == "dir" && len(args) == 0:
		return s.list()
	case cmd == "create" && len(args) == 1:
		return s.create(args[0])
	case cmd == "del" && len(args) == 1:
		return s.delete(args[0])
	case cmd == "open" && len(args) == 1:
		return s.openFile(args[0])
	case cmd == "close" && len(args) == 1:
		return s.closeFile(args[0])
	case cmd == "read" && len(args) == 1:
		return s.read(args[0])
	case cmd == "write" && len(args) >= 2:
		return s.write(args[0], strings.Join(args[1:], " "))
	case cmd == "cd" && len(args) == 1:
		return s.chdir(args[0])
	case cmd == "md" && len(args) == 1:
		return s.mkdir(args[0])
	case cmd == "rd" && len(args) == 1:
		return s.rmdir(args[0])
	case cmd == "diskusage" && len(args) == 0:
		return s.diskUsage()
	case cmd == "showfat" && len(args) == 0:
		return s.showFAT()
	case cmd == "help" && len(args) == 0:
		return Banner()
	default:
		return invalidCommand
	}
}

func (s *Shell) register(username, password string) string {
	if err := s.store.Register(username, password); err != nil {
		return "User already exists."
	}

	return fmt.Sprintf("User '%s' registered successfully.", username)
}

func (s *Shell) login(username, password string) string {
	if err := s.store.Login(username, password); err != nil {
		return "Login failed."
	}

	return fmt.Sprintf("User '%s' logged in successfully.", username)
}

// errorMessage renders failures with no command-specific message.
// Only a missing session maps to the login prompt; anything else is an
// internal failure and is reported as one.
func errorMessage(err error) string {
	if errors.Is(err, vfs.ErrNotLoggedIn) {
		return notLoggedIn
	}

	return fmt.Sprintf("Error: %v", err)
}

func (s *Shell) logout() string {
	username, err := s.store.Logout()
	if err != nil {
		return errorMessage(err)
	}

	return fmt.Sprintf("User '%s' logged out successfully.", username)
}

func (s *Shell) list() string {
	names, err := s.store.List()
	if err != nil {
		return errorMessage(err)
	}

	return strings.Join(names, "\n")
}

func (s *Shell) create(name string) string {
	switch err := s.store.Create(name); {
	case err == nil:
		return fmt.Sprintf("File '%s' created.", name)
	case errors.Is(err, vfs.ErrExists):
		return "File already exists."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) delete(name string) string {
	switch err := s.store.Delete(name); {
	case err == nil:
		return fmt.Sprintf("File '%s' deleted.", name)
	case errors.Is(err, vfs.ErrNotFound):
		return "File not found."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) openFile(name string) string {
	switch err := s.store.Open(name); {
	case err == nil:
		return fmt.Sprintf("File '%s' opened.", name)
	case errors.Is(err, vfs.ErrNotFound):
		return "File not found."
	case errors.Is(err, vfs.ErrAlreadyOpen):
		return "File already opened."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) closeFile(name string) string {
	switch err := s.store.Close(name); {
	case err == nil:
		return fmt.Sprintf("File '%s' closed.", name)
	case errors.Is(err, vfs.ErrNotOpen):
		return "File not opened."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) read(name string) string {
	content, err := s.store.Read(name)
	switch {
	case err == nil:
		return content
	case errors.Is(err, vfs.ErrNotOpen):
		return "File not opened."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) write(name, content string) string {
	switch err := s.store.Write(name, content); {
	case err == nil:
		return "Content written to file."
	case errors.Is(err, vfs.ErrNotOpen):
		return "File not opened."
	case errors.Is(err, vfs.ErrDiskFull):
		return "Not enough disk space."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) chdir(name string) string {
	switch err := s.store.Chdir(name); {
	case err == nil && name == "..":
		return "Returned to the parent directory."
	case err == nil:
		return fmt.Sprintf("Changed directory to '%s'.", name)
	case errors.Is(err, vfs.ErrAtRoot):
		return "Already at the root directory."
	case errors.Is(err, vfs.ErrNotFound):
		return "Directory not found."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) mkdir(name string) string {
	switch err := s.store.Mkdir(name); {
	case err == nil:
		return fmt.Sprintf("Directory '%s' created.", name)
	case errors.Is(err, vfs.ErrExists):
		return "Directory already exists."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) rmdir(name string) string {
	switch err := s.store.Rmdir(name); {
	case err == nil:
		return fmt.Sprintf("Directory '%s' deleted.", name)
	case errors.Is(err, vfs.ErrNotFound):
		return "Directory not found or is a file."
	default:
		return errorMessage(err)
	}
}

func (s *Shell) diskUsage() string {
	used, total := s.store.DiskUsage()
	return fmt.Sprintf("Disk usage: %d/%d bytes", used, total)
}

func (s *Shell) showFAT() string {
	report, err := s.store.FATReport()
	if err != nil {
		return errorMessage(err)
	}

	lines := []string{"FAT Table:"}
	for _, entry := range report {
		lines = append(lines, fmt.Sprintf("  %s:", entry.Name))
		lines = append(lines, fmt.Sprintf("    Path: %s", entry.Path))
		if entry.Owner != "" && entry.Owner != s.store.CurrentUser() {
			lines = append(lines, fmt.Sprintf("    Owner: %s", entry.Owner))
		}
		lines = append(lines, fmt.Sprintf("    Start - %d, End - %d", entry.Start, entry.End))
	}

	return strings.Join(lines, "\n")
}
