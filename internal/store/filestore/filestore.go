// Package filestore implements the store contracts on pipe-delimited,
// line-per-record text files under a shared data directory. It is the
// process-local stand-in for a real database: whole-file rewrites are
// atomic (write-then-rename) and last-writer-wins.
package filestore

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/renameio/v2"

	"vcrts/internal/store"
)

// Separator joins record fields. Request payloads keep their own inner
// separators inside a record (see lineToRequest).
const Separator = store.FieldSeparator

const (
	requestsFile = "requests.txt"
	vehiclesFile = "vehicles.txt"
	jobsFile     = "jobs.txt"
	usersFile    = "users.txt"
)

// Store is the single concrete implementation of the store interfaces.
// One mutex serializes all writers; readers of a half-appended file are
// prevented by the same lock.
type Store struct {
	dir string
	log *slog.Logger

	mu sync.Mutex
}

// New creates the data directory if needed and returns a ready Store.
func New(dir string, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the data directory the store operates on.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readAllLines returns the file's non-empty lines. A missing file is
// created empty on first touch; read failures degrade to no records.
func (s *Store) readAllLines(name string) []string {
	path := s.path(name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if created, cerr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644); cerr == nil {
				created.Close()
			}
			return nil
		}
		s.log.Error("failed to read store file", "file", name, "error", err)
		return nil
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		s.log.Error("failed to scan store file", "file", name, "error", err)
		return nil
	}
	return lines
}

// writeAllLines rewrites the whole file atomically.
func (s *Store) writeAllLines(name string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := renameio.WriteFile(s.path(name), []byte(b.String()), 0o644); err != nil {
		s.log.Error("failed to rewrite store file", "file", name, "error", err)
		return fmt.Errorf("rewrite %s: %w", name, err)
	}
	return nil
}

func (s *Store) appendLine(name, line string) error {
	f, err := os.OpenFile(s.path(name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.log.Error("failed to open store file for append", "file", name, "error", err)
		return fmt.Errorf("append %s: %w", name, err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		s.log.Error("failed to append to store file", "file", name, "error", err)
		return fmt.Errorf("append %s: %w", name, err)
	}
	return nil
}

// nextNumericID scans every line, parses the first field as an integer and
// returns max+1. Malformed leading fields are skipped, never fatal.
func (s *Store) nextNumericID(name string) int {
	maxID := 0
	for _, line := range s.readAllLines(name) {
		first, _, _ := strings.Cut(line, Separator)
		id, err := strconv.Atoi(first)
		if err != nil {
			continue
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}
