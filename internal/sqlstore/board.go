package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/model"
)

var cardContentColumns = []string{
	"title", "description", "tags", "due_date", "priority", "assignees",
	"correction", "version", "updated_at",
}

// EnsureDefaultBoard seeds a correction board when the database has none.
func (s *Store) EnsureDefaultBoard() error {
	var n int64
	if err := s.db.Model(&boardRow{}).Count(&n).Error; err != nil {
		return fmt.Errorf("counting boards: %w", err)
	}
	if n > 0 {
		return nil
	}
	b := kanban.DefaultBoard()
	row := boardRow{ID: b.ID, Title: b.Title, CreatedAt: s.now().UTC()}
	for _, col := range b.Columns {
		row.Columns = append(row.Columns, columnRow{
			ID:       col.ID,
			BoardID:  b.ID,
			Title:    col.Title,
			Position: col.Position,
			Status:   string(col.Status),
		})
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("seeding board: %w", err)
	}
	return nil
}

// FetchBoards returns every board with its columns and cards in order.
func (s *Store) FetchBoards(ctx context.Context) ([]model.Board, error) {
	var rows []boardRow
	err := s.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetching boards: %w", err)
	}
	boards := make([]model.Board, 0, len(rows))
	for _, r := range rows {
		b := model.Board{ID: r.ID, Title: r.Title, Columns: make([]model.Column, 0, len(r.Columns))}
		for _, c := range r.Columns {
			b.Columns = append(b.Columns, toColumn(c))
		}
		boards = append(boards, b)
	}
	return boards, nil
}

func loadColumn(tx *gorm.DB, columnID string) (model.Column, error) {
	var row columnRow
	if err := tx.First(&row, "id = ?", columnID).Error; err != nil {
		return model.Column{}, notFound(err, "column %s not found", columnID)
	}
	return toColumn(row), nil
}

func loadCard(tx *gorm.DB, cardID string, version int64) (cardRow, error) {
	var row cardRow
	if err := tx.First(&row, "id = ?", cardID).Error; err != nil {
		return cardRow{}, notFound(err, "card %s not found", cardID)
	}
	if version != 0 && version != row.Version {
		return cardRow{}, apperr.ErrConflict.With("card %s is at version %d, not %d", cardID, row.Version, version)
	}
	return row, nil
}

func nextSeq(tx *gorm.DB, columnID string) (int64, error) {
	var last int64
	err := tx.Model(&cardRow{}).
		Where("column_id = ?", columnID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error
	return last + 1, err
}

// CreateCard appends card to a column. The card takes the column's status.
func (s *Store) CreateCard(ctx context.Context, columnID string, card model.Card) (model.Card, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		col, err := loadColumn(tx, columnID)
		if err != nil {
			return err
		}
		seq, err := nextSeq(tx, columnID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		card.ID = uuid.NewString()
		card.ColumnID = columnID
		card.Status = col.LandingStatus(card.Status)
		card.Version = 1
		card.CreatedAt = now
		card.UpdatedAt = now
		if card.Tags == nil {
			card.Tags = []string{}
		}
		if card.Assignees == nil {
			card.Assignees = []string{}
		}
		row := fromCard(card)
		row.Seq = seq
		return tx.Create(&row).Error
	})
	if err != nil {
		return model.Card{}, wrapErr("creating card", err)
	}
	return card, nil
}

// MoveCard moves a card to the end of another column and updates its
// status to match.
func (s *Store) MoveCard(ctx context.Context, cardID, columnID string, version int64) (model.Card, error) {
	var out model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadCard(tx, cardID, version)
		if err != nil {
			return err
		}
		col, err := loadColumn(tx, columnID)
		if err != nil {
			return err
		}
		seq, err := nextSeq(tx, columnID)
		if err != nil {
			return err
		}
		next := row
		next.ColumnID = columnID
		next.Status = string(col.LandingStatus(model.BackendStatus(row.Status)))
		next.Seq = seq
		next.Version = row.Version + 1
		next.UpdatedAt = s.now().UTC()

		res := tx.Model(&cardRow{ID: cardID}).
			Where("version = ?", row.Version).
			Select("column_id", "status", "seq", "version", "updated_at").
			Updates(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict.With("card %s was modified concurrently", cardID)
		}
		out = toCard(next)
		return nil
	})
	if err != nil {
		return model.Card{}, wrapErr("moving card", err)
	}
	return out, nil
}

// UpdateCard changes the content of a card. Status and column are kept.
func (s *Store) UpdateCard(ctx context.Context, cardID string, patch model.CardPatch) (model.Card, error) {
	var out model.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := loadCard(tx, cardID, patch.Version)
		if err != nil {
			return err
		}
		c := toCard(row)
		patch.Apply(&c)
		c.Version = row.Version + 1
		c.UpdatedAt = s.now().UTC()

		next := fromCard(c)
		next.Seq = row.Seq
		res := tx.Model(&cardRow{ID: cardID}).
			Where("version = ?", row.Version).
			Select(cardContentColumns).
			Updates(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrConflict.With("card %s was modified concurrently", cardID)
		}
		out = c
		return nil
	})
	if err != nil {
		return model.Card{}, wrapErr("updating card", err)
	}
	return out, nil
}

// DeleteCard removes a card.
func (s *Store) DeleteCard(ctx context.Context, cardID string) error {
	res := s.db.WithContext(ctx).Delete(&cardRow{}, "id = ?", cardID)
	if res.Error != nil {
		return fmt.Errorf("deleting card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound.With("card %s not found", cardID)
	}
	return nil
}
