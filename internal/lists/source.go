// Package lists abstracts the line-oriented domain and keyword lists the
// analyzer is constructed from, so the engine can run against in-memory sets
// in tests and against flat files in production.
package lists

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

// ErrInvalidDomainToken is returned when an appended entry is not a plain
// domain token (alphanumeric, dot, hyphen).
var ErrInvalidDomainToken = errors.New("invalid domain token")

var domainTokenRegex = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)

// ValidDomainToken reports whether s is acceptable as a list entry.
func ValidDomainToken(s string) bool {
	return domainTokenRegex.MatchString(s)
}

// Source is a loadable, appendable set of lowercase strings.
type Source interface {
	// Load reads the full set. A missing backing source is an empty set,
	// not an error.
	Load() (map[string]struct{}, error)

	// Append persists one entry, lowercased. Appending an entry that is
	// already present is a no-op.
	Append(entry string) error
}

// FileSource reads and appends one entry per line of a text file.
type FileSource struct {
	path string
}

// NewFileSource creates a Source backed by the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the backing file path.
func (s *FileSource) Path() string { return s.path }

// Load reads the file into a set, lowercasing entries and skipping blank
// lines. A missing file yields an empty set.
func (s *FileSource) Load() (map[string]struct{}, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("failed to open list %s: %w", s.path, err)
	}
	defer f.Close()

	set := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line != "" {
			set[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read list %s: %w", s.path, err)
	}
	return set, nil
}

// Append adds one validated entry to the file, creating it if absent.
func (s *FileSource) Append(entry string) error {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if !ValidDomainToken(entry) {
		return ErrInvalidDomainToken
	}

	existing, err := s.Load()
	if err != nil {
		return err
	}
	if _, ok := existing[entry]; ok {
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open list %s for append: %w", s.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, entry); err != nil {
		return fmt.Errorf("failed to append to list %s: %w", s.path, err)
	}
	return nil
}

// MemorySource is an in-memory Source for tests and embedding callers.
type MemorySource struct {
	mu      sync.RWMutex
	entries map[string]struct{}
}

// NewMemorySource creates a MemorySource seeded with the given entries.
func NewMemorySource(entries ...string) *MemorySource {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &MemorySource{entries: set}
}

// Load returns a copy of the set.
func (s *MemorySource) Load() (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{}, len(s.entries))
	for e := range s.entries {
		set[e] = struct{}{}
	}
	return set, nil
}

// Append adds one validated entry to the set.
func (s *MemorySource) Append(entry string) error {
	entry = strings.ToLower(strings.TrimSpace(entry))
	if !ValidDomainToken(entry) {
		return ErrInvalidDomainToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry] = struct{}{}
	return nil
}
