// Package ledger keeps an employee's daily attendance record: it stamps
// punches in slot order and distributes the worked time across projects.
package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// Cooldown is the minimum gap between two accepted punches of a session.
const Cooldown = 5 * time.Minute

// Ledger registers punches and allocations for one session.
type Ledger struct {
	store     EntryStore
	sessions  SessionTracker
	sessionID string
	now       func() time.Time
	log       *zap.SugaredLogger
}

// Option customises a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New returns a Ledger persisting through store and tracking cooldown for
// sessionID in sessions.
func New(store EntryStore, sessions SessionTracker, sessionID string, log *zap.SugaredLogger, opts ...Option) *Ledger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	l := &Ledger{
		store:     store,
		sessions:  sessions,
		sessionID: sessionID,
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Punch is the outcome of a successful registration.
// The punch is saved even when Warning is set; Warning reports that the
// cooldown could not be recorded, so the next punch is not held back.
type Punch struct {
	Field   model.PunchField
	Value   string
	Entry   model.TimeEntry
	Warning error
}

// NextField returns the lowest-indexed empty slot. ok is false when all six
// are filled.
func NextField(e model.TimeEntry) (model.PunchField, bool) {
	for f := model.Entrada1; f <= model.Saida3; f++ {
		if e.Punch(f) == "" {
			return f, true
		}
	}
	return 0, false
}

// PairMinutes is the worked time of one pair. Incomplete, unparsable or
// non-advancing pairs count as zero.
func PairMinutes(p model.TimePair) int {
	if !p.Complete() {
		return 0
	}
	m, ok := timecalc.IntervalMinutes(p.Entrada, p.Saida)
	if !ok {
		return 0
	}
	return m
}

// TotalMinutes sums the worked time over the three pairs of e.
func TotalMinutes(e model.TimeEntry) int {
	total := 0
	for _, p := range e.Pairs() {
		total += PairMinutes(p)
	}
	return total
}

// Today returns the caller's entry for the current day, or nil when none
// exists yet.
func (l *Ledger) Today(ctx context.Context, userID string) (*model.TimeEntry, error) {
	now := l.now()
	entries, err := l.store.ListEntries(ctx, userID, timecalc.StartOfDay(now), timecalc.EndOfDay(now))
	if err != nil {
		return nil, apperr.Collaborator("loading today's entry", err)
	}
	today := timecalc.DateKey(now)
	for i := range entries {
		if entries[i].Date == today {
			return &entries[i], nil
		}
	}
	return nil, nil
}

// RegisterPunch stamps the current time into the next free slot of existing
// (nil when the day has no record yet) and persists it. existing is never
// modified; the returned Punch carries the entry as the store saved it.
func (l *Ledger) RegisterPunch(ctx context.Context, userID string, existing *model.TimeEntry) (Punch, error) {
	now := l.now()

	var entry model.TimeEntry
	if existing != nil {
		entry = *existing
	}
	field, ok := NextField(entry)
	if !ok {
		return Punch{}, ErrAllSlotsFilled
	}

	last, found, err := l.sessions.LastPunch(ctx, l.sessionID)
	if err != nil {
		return Punch{}, fmt.Errorf("reading last punch of session %s: %w", l.sessionID, err)
	}
	if found {
		if wait := Cooldown - now.Sub(last); wait > 0 {
			return Punch{}, ErrCooldownActive.With("last punch was at %s, try again in %s",
				timecalc.ClockOf(last), wait.Round(time.Second))
		}
	}

	value := timecalc.ClockOf(now)
	entry.SetPunch(field, value)
	total := timecalc.FormatClock(TotalMinutes(entry))
	punches := map[model.PunchField]string{field: value}

	var saved model.TimeEntry
	if existing == nil || existing.ID == "" {
		saved, err = l.store.CreateEntry(ctx, model.NewEntry{
			UserID:     userID,
			Date:       timecalc.DateKey(now),
			Punches:    punches,
			TotalHours: total,
		})
	} else {
		saved, err = l.store.UpdateEntry(ctx, existing.ID, model.EntryPatch{
			Punches:    punches,
			TotalHours: &total,
			Version:    existing.Version,
		})
	}
	if err != nil {
		return Punch{}, apperr.Collaborator("saving punch", err)
	}

	p := Punch{Field: field, Value: value, Entry: saved}
	if err := l.sessions.RecordPunch(ctx, l.sessionID, now); err != nil {
		l.log.Warnw("could not record punch time", "session", l.sessionID, "error", err)
		p.Warning = &apperr.Error{
			Kind:    ErrCooldownNotRecorded.Kind,
			Code:    ErrCooldownNotRecorded.Code,
			Message: ErrCooldownNotRecorded.Message,
			Err:     err,
		}
	}
	l.log.Infow("punch registered", "user", userID, "field", field.String(), "value", value, "total", total)
	return p, nil
}
