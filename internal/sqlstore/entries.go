package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// ErrInvalidEntry is returned for an entry without a user or a valid date.
var ErrInvalidEntry = apperr.New(apperr.KindValidation, "invalid_entry", "invalid time entry")

var entryColumns = []string{
	"entrada1", "saida1", "entrada2", "saida2", "entrada3", "saida3",
	"total_hours", "version", "updated_at",
}

func preloadAllocations(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// ListEntries returns the entries of userID dated within [from, to].
func (s *Store) ListEntries(ctx context.Context, userID string, from, to time.Time) ([]model.TimeEntry, error) {
	var rows []entryRow
	err := s.db.WithContext(ctx).
		Preload("Allocations", preloadAllocations).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, timecalc.DateKey(from), timecalc.DateKey(to)).
		Order("date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	out := make([]model.TimeEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, toEntry(r))
	}
	return out, nil
}

// CreateEntry stores the first record of a day. A second record for the
// same user and date is a conflict.
func (s *Store) CreateEntry(ctx context.Context, in model.NewEntry) (model.TimeEntry, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return model.TimeEntry{}, ErrInvalidEntry.With("user id is required")
	}
	if _, err := time.Parse(timecalc.DateLayout, in.Date); err != nil {
		return model.TimeEntry{}, ErrInvalidEntry.With("invalid date %q, want YYYY-MM-DD", in.Date)
	}

	e := model.TimeEntry{
		ID:          uuid.NewString(),
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

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entryRow{}).Where("user_id = ? AND date = ?", in.UserID, in.Date).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperr.ErrConflict.With("entry for %s on %s already exists", in.UserID, in.Date)
		}
		row := fromEntry(e)
		if err := tx.Omit("Allocations").Create(&row).Error; err != nil {
			return err
		}
		return insertAllocations(tx, e.ID, e.Allocations)
	})
	if err != nil {
		return model.TimeEntry{}, wrapErr("creating entry", err)
	}
	return e, nil
}

// UpdateEntry applies patch to an existing entry. Allocations in the patch
// replace the stored ones.
func (s *Store) UpdateEntry(ctx context.Context, entryID string, patch model.EntryPatch) (model.TimeEntry, error) {
	var out model.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row entryRow
		if err := tx.Preload("Allocations", preloadAllocations).First(&row, "id = ?", entryID).Error; err != nil {
			return notFound(err, "entry %s not found", entryID)
		}
		if patch.Version != 0 && patch.Version != row.Version {
			return apperr.ErrConflict.With("entry %s is at version %d, not %d", entryID, row.Version, patch.Version)
		}

		e := toEntry(row)
		patch.Apply(&e)
		e.Allocations = withIDs(e.Allocations)
		e.Version = row.Version + 1
		e.UpdatedAt = s.now().UTC()

		next := fromEntry(e)
		res := tx.Model(&entryRow{ID: entryID}).
			Where("version = ?", row.Version).
			Select(entryColumns).
			Updates(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict.With("entry %s was modified concurrently", entryID)
		}
		if patch.Allocations != nil {
			if err := tx.Where("entry_id = ?", entryID).Delete(&allocationRow{}).Error; err != nil {
				return err
			}
			if err := insertAllocations(tx, entryID, e.Allocations); err != nil {
				return err
			}
		}
		out = e
		return nil
	})
	if err != nil {
		return model.TimeEntry{}, wrapErr("updating entry", err)
	}
	return out, nil
}

func insertAllocations(tx *gorm.DB, entryID string, allocs []model.Allocation) error {
	rows := allocationRows(entryID, allocs)
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func withIDs(allocs []model.Allocation) []model.Allocation {
	out := make([]model.Allocation, len(allocs))
	copy(out, allocs)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}
