package storage

import (
	"context"
	"time"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// EntryID is the id the file store gives the entry of userID on date. The
// date is always the last ten characters.
func EntryID(userID, date string) string {
	return userID + "@" + date
}

func splitEntryID(id string) (string, time.Time, error) {
	n := len(timecalc.DateLayout)
	if len(id) < n+2 || id[len(id)-n-1] != '@' {
		return "", time.Time{}, apperr.ErrNotFound.With("entry %s not found", id)
	}
	userID, date := id[:len(id)-n-1], id[len(id)-n:]
	if err := checkUser(userID); err != nil {
		return "", time.Time{}, err
	}
	day, err := parseDate(date)
	if err != nil {
		return "", time.Time{}, err
	}
	return userID, day, nil
}

func (s *Store) loadEntry(userID string, day time.Time) (*model.TimeEntry, error) {
	var e model.TimeEntry
	ok, err := readJSON(s.dayFilePath(userID, day), &e)
	if err != nil || !ok {
		return nil, err
	}
	if e.Allocations == nil {
		e.Allocations = []model.Allocation{}
	}
	return &e, nil
}

// ListEntries returns the entries of userID dated within [from, to].
func (s *Store) ListEntries(_ context.Context, userID string, from, to time.Time) ([]model.TimeEntry, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []model.TimeEntry{}
	last := timecalc.StartOfDay(to)
	for d := timecalc.StartOfDay(from); !d.After(last); d = d.AddDate(0, 0, 1) {
		e, err := s.loadEntry(userID, d)
		if err != nil {
			return nil, err
		}
		if e != nil {
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

// CreateEntry stores the first record of a day. A day that already has a
// record is a conflict.
func (s *Store) CreateEntry(_ context.Context, in model.NewEntry) (model.TimeEntry, error) {
	if err := checkUser(in.UserID); err != nil {
		return model.TimeEntry{}, err
	}
	day, err := parseDate(in.Date)
	if err != nil {
		return model.TimeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadEntry(in.UserID, day)
	if err != nil {
		return model.TimeEntry{}, err
	}
	if existing != nil {
		return model.TimeEntry{}, apperr.ErrConflict.With("entry for %s on %s already exists", in.UserID, in.Date)
	}

	e := model.TimeEntry{
		ID:          EntryID(in.UserID, in.Date),
		UserID:      in.UserID,
		Date:        in.Date,
		TotalHours:  in.TotalHours,
		Allocations: withIDs(in.Allocations),
		Version:     1,
		UpdatedAt:   s.now().UTC(),
	}
	for f, v := range in.Punches {
		e.SetPunch(f, v)
	}
	if err := writeJSON(s.dayFilePath(in.UserID, day), e); err != nil {
		return model.TimeEntry{}, err
	}
	return e, nil
}

// UpdateEntry applies patch to an existing entry.
func (s *Store) UpdateEntry(_ context.Context, entryID string, patch model.EntryPatch) (model.TimeEntry, error) {
	userID, day, err := splitEntryID(entryID)
	if err != nil {
		return model.TimeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.loadEntry(userID, day)
	if err != nil {
		return model.TimeEntry{}, err
	}
	if e == nil {
		return model.TimeEntry{}, apperr.ErrNotFound.With("entry %s not found", entryID)
	}
	if patch.Version != 0 && patch.Version != e.Version {
		return model.TimeEntry{}, apperr.ErrConflict.With("entry %s is at version %d, not %d", entryID, e.Version, patch.Version)
	}
	patch.Apply(e)
	e.Allocations = withIDs(e.Allocations)
	e.Version++
	e.UpdatedAt = s.now().UTC()
	if err := writeJSON(s.dayFilePath(userID, day), e); err != nil {
		return model.TimeEntry{}, err
	}
	return *e, nil
}

// withIDs copies allocs, giving every allocation without an id a new one.
func withIDs(allocs []model.Allocation) []model.Allocation {
	out := make([]model.Allocation, len(allocs))
	copy(out, allocs)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = newID()
		}
	}
	return out
}
