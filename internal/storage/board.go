package storage

import (
	"context"
	"sort"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/model"
)

// loadBoard reads board.json, seeding it on first use.
func (s *Store) loadBoard() (model.Board, error) {
	var b model.Board
	ok, err := readJSON(s.boardPath(), &b)
	if err != nil {
		return model.Board{}, err
	}
	if !ok {
		b = kanban.DefaultBoard()
		if err := writeJSON(s.boardPath(), b); err != nil {
			return model.Board{}, err
		}
	}
	sort.SliceStable(b.Columns, func(i, j int) bool { return b.Columns[i].Position < b.Columns[j].Position })
	return b, nil
}

func findCard(b *model.Board, cardID string) (*model.Card, int, int, error) {
	for ci := range b.Columns {
		for i := range b.Columns[ci].Cards {
			if b.Columns[ci].Cards[i].ID == cardID {
				return &b.Columns[ci].Cards[i], ci, i, nil
			}
		}
	}
	return nil, -1, -1, apperr.ErrNotFound.With("card %s not found", cardID)
}

func findColumn(b *model.Board, columnID string) (int, error) {
	for i, col := range b.Columns {
		if col.ID == columnID {
			return i, nil
		}
	}
	return -1, apperr.ErrNotFound.With("column %s not found", columnID)
}

func checkVersion(c *model.Card, version int64) error {
	if version != 0 && version != c.Version {
		return apperr.ErrConflict.With("card %s is at version %d, not %d", c.ID, c.Version, version)
	}
	return nil
}

// FetchBoards returns the single board of the data directory.
func (s *Store) FetchBoards(context.Context) ([]model.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.loadBoard()
	if err != nil {
		return nil, err
	}
	return []model.Board{b}, nil
}

// CreateCard appends card to a column. The card takes the column's status.
func (s *Store) CreateCard(_ context.Context, columnID string, card model.Card) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.loadBoard()
	if err != nil {
		return model.Card{}, err
	}
	ci, err := findColumn(&b, columnID)
	if err != nil {
		return model.Card{}, err
	}

	now := s.now().UTC()
	card.ID = newID()
	card.ColumnID = columnID
	card.Status = b.Columns[ci].LandingStatus(card.Status)
	card.Version = 1
	card.CreatedAt = now
	card.UpdatedAt = now
	if card.Tags == nil {
		card.Tags = []string{}
	}
	if card.Assignees == nil {
		card.Assignees = []string{}
	}
	b.Columns[ci].Cards = append(b.Columns[ci].Cards, card)
	if err := writeJSON(s.boardPath(), b); err != nil {
		return model.Card{}, err
	}
	return card, nil
}

// MoveCard moves a card to the end of another column and updates its
// status to match.
func (s *Store) MoveCard(_ context.Context, cardID, columnID string, version int64) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.loadBoard()
	if err != nil {
		return model.Card{}, err
	}
	c, from, idx, err := findCard(&b, cardID)
	if err != nil {
		return model.Card{}, err
	}
	if err := checkVersion(c, version); err != nil {
		return model.Card{}, err
	}
	to, err := findColumn(&b, columnID)
	if err != nil {
		return model.Card{}, err
	}

	card := *c
	src := b.Columns[from].Cards
	b.Columns[from].Cards = append(src[:idx:idx], src[idx+1:]...)
	card.ColumnID = columnID
	card.Status = b.Columns[to].LandingStatus(card.Status)
	card.Version++
	card.UpdatedAt = s.now().UTC()
	b.Columns[to].Cards = append(b.Columns[to].Cards, card)
	if err := writeJSON(s.boardPath(), b); err != nil {
		return model.Card{}, err
	}
	return card, nil
}

// UpdateCard changes the content of a card in place.
func (s *Store) UpdateCard(_ context.Context, cardID string, patch model.CardPatch) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.loadBoard()
	if err != nil {
		return model.Card{}, err
	}
	c, _, _, err := findCard(&b, cardID)
	if err != nil {
		return model.Card{}, err
	}
	if err := checkVersion(c, patch.Version); err != nil {
		return model.Card{}, err
	}
	patch.Apply(c)
	c.Version++
	c.UpdatedAt = s.now().UTC()
	if err := writeJSON(s.boardPath(), b); err != nil {
		return model.Card{}, err
	}
	return *c, nil
}

// DeleteCard removes a card from the board.
func (s *Store) DeleteCard(_ context.Context, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.loadBoard()
	if err != nil {
		return err
	}
	_, ci, idx, err := findCard(&b, cardID)
	if err != nil {
		return err
	}
	cards := b.Columns[ci].Cards
	b.Columns[ci].Cards = append(cards[:idx:idx], cards[idx+1:]...)
	return writeJSON(s.boardPath(), b)
}
