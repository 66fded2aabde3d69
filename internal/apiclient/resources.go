package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// ListEntries fetches the entries of userID dated within [from, to].
func (c *Client) ListEntries(ctx context.Context, userID string, from, to time.Time) ([]model.TimeEntry, error) {
	q := url.Values{
		"user_id": {userID},
		"from":    {timecalc.DateKey(from)},
		"to":      {timecalc.DateKey(to)},
	}
	var entries []model.TimeEntry
	if err := c.do(ctx, http.MethodGet, "/api/v1/time-entries", q, nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.TimeEntry{}
	}
	return entries, nil
}

// CreateEntry creates the first record of a day.
func (c *Client) CreateEntry(ctx context.Context, in model.NewEntry) (model.TimeEntry, error) {
	var e model.TimeEntry
	err := c.do(ctx, http.MethodPost, "/api/v1/time-entries", nil, in, &e)
	return e, err
}

// UpdateEntry sends a partial update of an entry.
func (c *Client) UpdateEntry(ctx context.Context, entryID string, patch model.EntryPatch) (model.TimeEntry, error) {
	var e model.TimeEntry
	err := c.do(ctx, http.MethodPatch, "/api/v1/time-entries/"+url.PathEscape(entryID), nil, patch, &e)
	return e, err
}

// FetchBoards fetches every board with columns and cards.
func (c *Client) FetchBoards(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	if err := c.do(ctx, http.MethodGet, "/api/v1/kanban/boards", nil, nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// CreateCard creates a card in a column.
func (c *Client) CreateCard(ctx context.Context, columnID string, card model.Card) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPost, "/api/v1/kanban/columns/"+url.PathEscape(columnID)+"/cards", nil, card, &out)
	return out, err
}

// MoveCard moves a card to another column.
func (c *Client) MoveCard(ctx context.Context, cardID, columnID string, version int64) (model.Card, error) {
	body := struct {
		ColumnID string `json:"column_id"`
		Version  int64  `json:"version,omitempty"`
	}{columnID, version}
	var out model.Card
	err := c.do(ctx, http.MethodPost, "/api/v1/kanban/cards/"+url.PathEscape(cardID)+"/move", nil, body, &out)
	return out, err
}

// UpdateCard sends a content-only update of a card.
func (c *Client) UpdateCard(ctx context.Context, cardID string, patch model.CardPatch) (model.Card, error) {
	var out model.Card
	err := c.do(ctx, http.MethodPatch, "/api/v1/kanban/cards/"+url.PathEscape(cardID), nil, patch, &out)
	return out, err
}

// DeleteCard removes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/kanban/cards/"+url.PathEscape(cardID), nil, nil, nil)
}
