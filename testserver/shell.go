package testserver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Shell emulates the shell commands issued by a file session, applying them to the local filesystem.
//
// Supported forms are "cd <dir> && ls" and "rm -rf <path>"; anything else exits with status 127.
type Shell struct {
	mu         sync.Mutex
	commands   []string
	protected  map[string]bool
	lineEnding string
}

// NewShell delivers a Shell that terminates listing lines with a newline.
func NewShell() *Shell {
	return &Shell{protected: map[string]bool{}, lineEnding: "\n"}
}

// Protect marks names that rm will silently leave in place.
func (s *Shell) Protect(names ...string) *Shell {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		s.protected[n] = true
	}
	return s
}

// WithLineEnding overrides the string that terminates each listing line.
func (s *Shell) WithLineEnding(ending string) *Shell {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineEnding = ending
	return s
}

// Commands delivers the commands received, in order.
func (s *Shell) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Exec implements Executor.
func (s *Shell) Exec(cmd string) (stdout, stderr string, status uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)

	switch {
	case strings.HasPrefix(cmd, "cd ") && strings.HasSuffix(cmd, " && ls"):
		return s.list(strings.TrimSuffix(strings.TrimPrefix(cmd, "cd "), " && ls"))
	case strings.HasPrefix(cmd, "rm -rf "):
		return s.remove(strings.TrimPrefix(cmd, "rm -rf "))
	default:
		return "", "sh: 1: " + cmd + ": not found\n", 127
	}
}

func (s *Shell) list(dir string) (stdout, stderr string, status uint32) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "sh: 1: cd: can't cd to " + dir + "\n", 2
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteString(s.lineEnding)
	}
	return b.String(), "", 0
}

func (s *Shell) remove(path string) (stdout, stderr string, status uint32) {
	if s.protected[filepath.Base(path)] {
		return "", "", 0
	}
	if err := os.RemoveAll(path); err != nil {
		return "", "rm: " + err.Error() + "\n", 1
	}
	return "", "", 0
}
