// Package session stores the time of each session's last accepted punch.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MemoryTracker keeps punch times for the lifetime of the process.
type MemoryTracker struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewMemoryTracker returns an empty MemoryTracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{last: map[string]time.Time{}}
}

func (m *MemoryTracker) LastPunch(_ context.Context, sessionID string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.last[sessionID]
	return t, ok, nil
}

func (m *MemoryTracker) RecordPunch(_ context.Context, sessionID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[sessionID] = at
	return nil
}

// FileTracker persists punch times in a JSON file so that separate CLI
// invocations of one session share the cooldown.
type FileTracker struct {
	path string
	mu   sync.Mutex
}

// NewFileTracker returns a tracker backed by the file at path.
func NewFileTracker(path string) *FileTracker {
	return &FileTracker{path: path}
}

func (f *FileTracker) load() (map[string]time.Time, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]time.Time{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file %s: %w", f.path, err)
	}
	last := map[string]time.Time{}
	if err := json.Unmarshal(data, &last); err != nil {
		return nil, fmt.Errorf("corrupt session file %s (delete it to reset cooldowns): %w", f.path, err)
	}
	return last, nil
}

func (f *FileTracker) LastPunch(_ context.Context, sessionID string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	last, err := f.load()
	if err != nil {
		return time.Time{}, false, err
	}
	t, ok := last[sessionID]
	return t, ok, nil
}

func (f *FileTracker) RecordPunch(_ context.Context, sessionID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	last, err := f.load()
	if err != nil {
		return err
	}
	last[sessionID] = at
	data, err := json.MarshalIndent(last, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving session file: %w", err)
	}
	return nil
}
