package ledger

import (
	"context"
	"time"

	"github.com/Tiliavir/ponto/internal/model"
)

// EntryStore is the time-entry collaborator. Implementations own transport
// and storage; the ledger only sees whole entries going in and out.
type EntryStore interface {
	ListEntries(ctx context.Context, userID string, from, to time.Time) ([]model.TimeEntry, error)
	CreateEntry(ctx context.Context, in model.NewEntry) (model.TimeEntry, error)
	UpdateEntry(ctx context.Context, entryID string, patch model.EntryPatch) (model.TimeEntry, error)
}

// SessionTracker remembers when a session last punched successfully.
type SessionTracker interface {
	LastPunch(ctx context.Context, sessionID string) (time.Time, bool, error)
	RecordPunch(ctx context.Context, sessionID string, at time.Time) error
}
