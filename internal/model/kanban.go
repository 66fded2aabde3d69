package model

import "time"

// TimeCorrection is the body of a correction request: the day being
// disputed and the times the employee says are right.
type TimeCorrection struct {
	Date          string     `json:"date"`
	Pairs         []TimePair `json:"pairs"`
	Justification string     `json:"justification"`
	DocumentName  string     `json:"document_name,omitempty"`
}

// ChatMessage is one entry of a card's conversation thread.
type ChatMessage struct {
	ID     string    `json:"id"`
	CardID string    `json:"card_id"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Card is a correction request as it sits on the review board.
type Card struct {
	ID          string          `json:"id"`
	ColumnID    string          `json:"column_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      BackendStatus   `json:"status"`
	Tags        []string        `json:"tags"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Priority    string          `json:"priority,omitempty"`
	Assignees   []string        `json:"assignees"`
	Correction  *TimeCorrection `json:"correction,omitempty"`
	Messages    []ChatMessage   `json:"messages,omitempty"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CardPatch is a content-only update of a card. Nil fields are unchanged.
// A non-zero Version must match the stored version.
type CardPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Correction  *TimeCorrection `json:"correction,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
	Priority    *string         `json:"priority,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Assignees   *[]string       `json:"assignees,omitempty"`
	Version     int64           `json:"version,omitempty"`
}

// Apply merges the patch into c.
func (p CardPatch) Apply(c *Card) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Correction != nil {
		corr := *p.Correction
		corr.Pairs = append([]TimePair(nil), p.Correction.Pairs...)
		c.Correction = &corr
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d := *p.DueDate
		c.DueDate = &d
	}
	if p.Assignees != nil {
		c.Assignees = append([]string(nil), (*p.Assignees)...)
	}
}

// Column is a persistence-level container of cards. Status is optional;
// columns are free-form and may be renamed by users.
type Column struct {
	ID       string        `json:"id"`
	BoardID  string        `json:"board_id"`
	Title    string        `json:"title"`
	Position int           `json:"position"`
	Status   BackendStatus `json:"status,omitempty"`
	Cards    []Card        `json:"cards"`
}

// LandingStatus is the status a card takes when it is placed in c: the
// declared status, else the status at the column's position, else current.
func (c Column) LandingStatus(current BackendStatus) BackendStatus {
	if c.Status != "" {
		return c.Status
	}
	if c.Position >= 0 && c.Position < len(BackendStatuses) {
		return BackendStatuses[c.Position]
	}
	return current
}

// Board is an ordered collection of columns.
type Board struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
}

// FindCard returns the card with the given id and the index of its column.
func (b Board) FindCard(id string) (Card, int, bool) {
	for ci, col := range b.Columns {
		for _, c := range col.Cards {
			if c.ID == id {
				return c, ci, true
			}
		}
	}
	return Card{}, -1, false
}

// Clone returns a deep copy of the board. No slice or pointer of the copy
// is shared with b.
func (b Board) Clone() Board {
	out := Board{ID: b.ID, Title: b.Title, Columns: make([]Column, len(b.Columns))}
	for i, col := range b.Columns {
		cards := make([]Card, len(col.Cards))
		for j, c := range col.Cards {
			cards[j] = c.Clone()
		}
		col.Cards = cards
		out.Columns[i] = col
	}
	return out
}

// Clone returns a copy of c that shares no slice or pointer with it.
func (c Card) Clone() Card {
	c.Tags = cloneStrings(c.Tags)
	c.Assignees = cloneStrings(c.Assignees)
	if c.Messages != nil {
		c.Messages = append([]ChatMessage{}, c.Messages...)
	}
	if c.DueDate != nil {
		due := *c.DueDate
		c.DueDate = &due
	}
	if c.Correction != nil {
		corr := *c.Correction
		if corr.Pairs != nil {
			corr.Pairs = append([]TimePair{}, corr.Pairs...)
		}
		c.Correction = &corr
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
