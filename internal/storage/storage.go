// Package storage keeps time entries and the correction board as JSON files
// under a local data directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// ErrInvalidKey is returned for a user id or date that cannot name a file.
var ErrInvalidKey = apperr.New(apperr.KindValidation, "invalid_key", "invalid storage key")

// BaseDir returns the root data directory (~/.ponto).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ponto"), nil
}

// Store is a file-backed entry and board store. One process may share a
// Store between goroutines; separate processes on the same directory are
// not coordinated.
type Store struct {
	base string
	now  func() time.Time

	mu sync.Mutex
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now for UpdatedAt and CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store rooted at base. Nothing is created until the first write.
func New(base string, opts ...Option) *Store {
	s := &Store{base: base, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Base returns the data directory.
func (s *Store) Base() string { return s.base }

// dayFilePath returns the path of a user's JSON file for the given date.
func (s *Store) dayFilePath(userID string, day time.Time) string {
	return filepath.Join(s.base, "entries", userID, day.Format("2006"), day.Format("01"), day.Format("02")+".json")
}

func (s *Store) boardPath() string {
	return filepath.Join(s.base, "board.json")
}

func checkUser(userID string) error {
	if userID == "" || userID == "." || userID == ".." || strings.ContainsAny(userID, `/\`) {
		return ErrInvalidKey.With("invalid user id %q", userID)
	}
	return nil
}

func parseDate(date string) (time.Time, error) {
	day, err := time.Parse(timecalc.DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidKey.With("invalid date %q, want YYYY-MM-DD", date)
	}
	return day, nil
}

// readJSON decodes path into v. It reports false for a missing file. A file
// that does not decode is moved aside to path+".corrupt" and reported.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return true, nil
}

// writeJSON atomically replaces path with the indented encoding of v.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}
