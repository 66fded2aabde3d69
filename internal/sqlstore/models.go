package sqlstore

import (
	"time"

	"github.com/Tiliavir/ponto/internal/model"
)

type entryRow struct {
	ID          string          `gorm:"primaryKey;size:36"`
	UserID      string          `gorm:"size:64;not null;uniqueIndex:idx_entry_user_date"`
	Date        string          `gorm:"size:10;not null;uniqueIndex:idx_entry_user_date"`
	Entrada1    string          `gorm:"size:8"`
	Saida1      string          `gorm:"size:8"`
	Entrada2    string          `gorm:"size:8"`
	Saida2      string          `gorm:"size:8"`
	Entrada3    string          `gorm:"size:8"`
	Saida3      string          `gorm:"size:8"`
	TotalHours  string          `gorm:"size:8"`
	Version     int64           `gorm:"not null;default:1"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime:false"`
	Allocations []allocationRow `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

func (entryRow) TableName() string { return "time_entries" }

type allocationRow struct {
	ID          string  `gorm:"primaryKey;size:36"`
	EntryID     string  `gorm:"size:36;not null;index"`
	ProjectID   string  `gorm:"size:64;not null"`
	ProjectName string  `gorm:"size:255"`
	Hours       float64 `gorm:"not null"`
	Position    int     `gorm:"not null"`
}

func (allocationRow) TableName() string { return "allocations" }

type boardRow struct {
	ID        string      `gorm:"primaryKey;size:36"`
	Title     string      `gorm:"size:255"`
	CreatedAt time.Time   `gorm:"autoCreateTime:false"`
	Columns   []columnRow `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
}

func (boardRow) TableName() string { return "boards" }

type columnRow struct {
	ID       string    `gorm:"primaryKey;size:36"`
	BoardID  string    `gorm:"size:36;not null;index"`
	Title    string    `gorm:"size:255"`
	Position int       `gorm:"not null"`
	Status   string    `gorm:"size:16"`
	Cards    []cardRow `gorm:"foreignKey:ColumnID"`
}

func (columnRow) TableName() string { return "kanban_columns" }

type cardRow struct {
	ID          string                `gorm:"primaryKey;size:36"`
	ColumnID    string                `gorm:"size:36;not null;index"`
	Title       string                `gorm:"size:255"`
	Description string                `gorm:"type:text"`
	Status      string                `gorm:"size:16;index"`
	Tags        []string              `gorm:"serializer:json"`
	DueDate     *time.Time
	Priority    string                `gorm:"size:16"`
	Assignees   []string              `gorm:"serializer:json"`
	Correction  *model.TimeCorrection `gorm:"serializer:json"`
	Messages    []model.ChatMessage   `gorm:"serializer:json"`
	Seq         int64                 `gorm:"not null;index"`
	Version     int64                 `gorm:"not null;default:1"`
	CreatedAt   time.Time             `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time             `gorm:"autoUpdateTime:false"`
}

func (cardRow) TableName() string { return "kanban_cards" }

func toEntry(r entryRow) model.TimeEntry {
	e := model.TimeEntry{
		ID:          r.ID,
		UserID:      r.UserID,
		Date:        r.Date,
		Entrada1:    r.Entrada1,
		Saida1:      r.Saida1,
		Entrada2:    r.Entrada2,
		Saida2:      r.Saida2,
		Entrada3:    r.Entrada3,
		Saida3:      r.Saida3,
		TotalHours:  r.TotalHours,
		Allocations: make([]model.Allocation, 0, len(r.Allocations)),
		Version:     r.Version,
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	for _, a := range r.Allocations {
		e.Allocations = append(e.Allocations, model.Allocation{
			ID:          a.ID,
			ProjectID:   a.ProjectID,
			ProjectName: a.ProjectName,
			Hours:       a.Hours,
		})
	}
	return e
}

func fromEntry(e model.TimeEntry) entryRow {
	return entryRow{
		ID:         e.ID,
		UserID:     e.UserID,
		Date:       e.Date,
		Entrada1:   e.Entrada1,
		Saida1:     e.Saida1,
		Entrada2:   e.Entrada2,
		Saida2:     e.Saida2,
		Entrada3:   e.Entrada3,
		Saida3:     e.Saida3,
		TotalHours: e.TotalHours,
		Version:    e.Version,
		UpdatedAt:  e.UpdatedAt,
	}
}

func allocationRows(entryID string, allocs []model.Allocation) []allocationRow {
	rows := make([]allocationRow, 0, len(allocs))
	for i, a := range allocs {
		rows = append(rows, allocationRow{
			ID:          a.ID,
			EntryID:     entryID,
			ProjectID:   a.ProjectID,
			ProjectName: a.ProjectName,
			Hours:       a.Hours,
			Position:    i,
		})
	}
	return rows
}

func toColumn(r columnRow) model.Column {
	col := model.Column{
		ID:       r.ID,
		BoardID:  r.BoardID,
		Title:    r.Title,
		Position: r.Position,
		Status:   model.BackendStatus(r.Status),
		Cards:    make([]model.Card, 0, len(r.Cards)),
	}
	for _, c := range r.Cards {
		col.Cards = append(col.Cards, toCard(c))
	}
	return col
}

func toCard(r cardRow) model.Card {
	c := model.Card{
		ID:          r.ID,
		ColumnID:    r.ColumnID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.BackendStatus(r.Status),
		Tags:        r.Tags,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Assignees:   r.Assignees,
		Correction:  r.Correction,
		Messages:    r.Messages,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Assignees == nil {
		c.Assignees = []string{}
	}
	return c
}

func fromCard(c model.Card) cardRow {
	return cardRow{
		ID:          c.ID,
		ColumnID:    c.ColumnID,
		Title:       c.Title,
		Description: c.Description,
		Status:      string(c.Status),
		Tags:        c.Tags,
		DueDate:     c.DueDate,
		Priority:    c.Priority,
		Assignees:   c.Assignees,
		Correction:  c.Correction,
		Messages:    c.Messages,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
