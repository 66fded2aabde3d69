// Package kanban runs the review workflow of correction requests on top of
// a free-form kanban board.
package kanban

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/correction"
	"github.com/Tiliavir/ponto/internal/model"
)

// Engine owns the lifecycle of correction cards for one board. It never
// changes a card's status locally: every transition is a move on the store
// followed by a full reload, and the snapshot only ever holds what the
// store returned.
type Engine struct {
	store   BoardStore
	boardID string
	log     *zap.SugaredLogger
	chat    *ChatLog

	mu       sync.Mutex
	board    model.Board
	loaded   bool
	columns  map[model.BackendStatus]string
	selected string
	inflight map[string]struct{}
}

// NewEngine returns an engine for boardID; an empty boardID picks the first
// board the store returns.
func NewEngine(store BoardStore, boardID string, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		store:    store,
		boardID:  boardID,
		log:      log,
		chat:     NewChatLog(time.Now),
		inflight: map[string]struct{}{},
	}
}

// Reload fetches the board and replaces the snapshot and the status→column
// map. On failure the previous snapshot is kept.
func (e *Engine) Reload(ctx context.Context) error {
	boards, err := e.store.FetchBoards(ctx)
	if err != nil {
		return apperr.Collaborator("loading boards", err)
	}
	board, err := pickBoard(boards, e.boardID)
	if err != nil {
		return err
	}
	board.Columns = orderedColumns(board)
	columns := ColumnMap(board)

	e.mu.Lock()
	e.board = board.Clone()
	e.columns = columns
	e.loaded = true
	e.mu.Unlock()
	return nil
}

func pickBoard(boards []model.Board, id string) (model.Board, error) {
	if id == "" {
		if len(boards) == 0 {
			return model.Board{}, ErrBoardNotFound.With("no boards available")
		}
		return boards[0], nil
	}
	for _, b := range boards {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Board{}, ErrBoardNotFound.With("board %s not found", id)
}

// Board returns a copy of the last loaded snapshot.
func (e *Engine) Board() model.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.Clone()
}

// Lanes projects the snapshot into the four workflow lanes.
func (e *Engine) Lanes() []Lane {
	return Project(e.Board())
}

// Card returns a card of the snapshot and its workflow status.
func (e *Engine) Card(cardID string) (model.Card, model.FrontendStatus, error) {
	card, err := e.lookup(cardID)
	if err != nil {
		return model.Card{}, "", err
	}
	front, _ := ToFrontend(card.Status)
	return card, front, nil
}

// Selected returns the focused card, if any is still on the board.
func (e *Engine) Selected() (model.Card, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == "" {
		return model.Card{}, false
	}
	c, _, ok := e.board.FindCard(e.selected)
	return c.Clone(), ok
}

func (e *Engine) lookup(cardID string) (model.Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return model.Card{}, ErrBoardNotLoaded
	}
	c, _, ok := e.board.FindCard(cardID)
	if !ok {
		return model.Card{}, ErrCardNotFound.With("card %s not found on board", cardID)
	}
	return c.Clone(), nil
}

// acquire marks a card as having a mutation in flight.
func (e *Engine) acquire(cardID string) (func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[cardID]; busy {
		return nil, ErrBusy.With("card %s has an operation in flight", cardID)
	}
	e.inflight[cardID] = struct{}{}
	return func() {
		e.mu.Lock()
		delete(e.inflight, cardID)
		e.mu.Unlock()
	}, nil
}

// Select focuses a card. Opening a requested card claims it for review by
// moving it to in analysis.
func (e *Engine) Select(ctx context.Context, cardID string) (model.Card, error) {
	card, err := e.lookup(cardID)
	if err != nil {
		return model.Card{}, err
	}
	e.mu.Lock()
	e.selected = cardID
	e.mu.Unlock()

	if front, _ := ToFrontend(card.Status); front != model.StatusRequested {
		return card, nil
	}
	return e.move(ctx, cardID, model.StatusInAnalysis)
}

// Approve moves an in-analysis card to approved.
func (e *Engine) Approve(ctx context.Context, cardID string) (model.Card, error) {
	return e.move(ctx, cardID, model.StatusApproved)
}

// RequestCorrection sends an in-analysis card back to the employee.
func (e *Engine) RequestCorrection(ctx context.Context, cardID string) (model.Card, error) {
	return e.move(ctx, cardID, model.StatusNeedsCorrection)
}

// RequestReanalysis returns a corrected card to the requested state.
func (e *Engine) RequestReanalysis(ctx context.Context, cardID string) (model.Card, error) {
	return e.move(ctx, cardID, model.StatusRequested)
}

func (e *Engine) planMove(cardID string, to model.FrontendStatus) (model.Card, model.FrontendStatus, string, error) {
	card, err := e.lookup(cardID)
	if err != nil {
		return model.Card{}, "", "", err
	}
	from, ok := ToFrontend(card.Status)
	if !ok || !CanTransition(from, to) {
		return model.Card{}, "", "", ErrIllegalTransition.With("cannot move card %s from %q to %q", cardID, from, to)
	}
	target, _ := ToBackend(to)

	e.mu.Lock()
	column, ok := e.columns[target]
	e.mu.Unlock()
	if !ok {
		return model.Card{}, "", "", ErrNoColumnForStatus.With("board has no column for status %q", target)
	}
	return card, from, column, nil
}

func (e *Engine) move(ctx context.Context, cardID string, to model.FrontendStatus) (model.Card, error) {
	release, err := e.acquire(cardID)
	if err != nil {
		return model.Card{}, err
	}
	defer release()

	card, from, column, err := e.planMove(cardID, to)
	if err != nil {
		return model.Card{}, err
	}
	if _, err := e.store.MoveCard(ctx, cardID, column, card.Version); err != nil {
		e.log.Warnw("move failed", "card", cardID, "to", to, "error", err)
		return model.Card{}, apperr.Collaborator(fmt.Sprintf("moving card %s", cardID), err)
	}
	e.log.Infow("card moved", "card", cardID, "from", from, "to", to, "column", column)
	return e.reloadCard(ctx, cardID)
}

func (e *Engine) reloadCard(ctx context.Context, cardID string) (model.Card, error) {
	if err := e.Reload(ctx); err != nil {
		return model.Card{}, err
	}
	return e.lookup(cardID)
}

func (e *Engine) editable(cardID string) (model.Card, error) {
	card, err := e.lookup(cardID)
	if err != nil {
		return model.Card{}, err
	}
	if front, _ := ToFrontend(card.Status); front != model.StatusNeedsCorrection {
		return model.Card{}, ErrNotEditable.With("card %s is %q; only cards that need correction can be changed", cardID, front)
	}
	return card, nil
}

// EditCard returns the correction payload of a card that needs correction,
// ready to be edited and passed to SaveEdit.
func (e *Engine) EditCard(cardID string) (model.TimeCorrection, error) {
	card, err := e.editable(cardID)
	if err != nil {
		return model.TimeCorrection{}, err
	}
	if card.Correction == nil {
		return model.TimeCorrection{Justification: card.Description}, nil
	}
	c := *card.Correction
	c.Pairs = append([]model.TimePair(nil), card.Correction.Pairs...)
	return c, nil
}

// SaveEdit replaces the content of a card that needs correction. The
// status is left alone.
func (e *Engine) SaveEdit(ctx context.Context, cardID string, c model.TimeCorrection) (model.Card, error) {
	release, err := e.acquire(cardID)
	if err != nil {
		return model.Card{}, err
	}
	defer release()

	card, err := e.editable(cardID)
	if err != nil {
		return model.Card{}, err
	}
	if err := correction.Validate(c); err != nil {
		return model.Card{}, err
	}
	justification := strings.TrimSpace(c.Justification)
	c.Justification = justification
	if _, err := e.store.UpdateCard(ctx, cardID, model.CardPatch{
		Description: &justification,
		Correction:  &c,
		Version:     card.Version,
	}); err != nil {
		return model.Card{}, apperr.Collaborator(fmt.Sprintf("updating card %s", cardID), err)
	}
	e.log.Infow("card edited", "card", cardID, "date", c.Date)
	return e.reloadCard(ctx, cardID)
}

// DeleteCard withdraws a card that needs correction. It is removed from
// the store and from the local snapshot.
func (e *Engine) DeleteCard(ctx context.Context, cardID string) error {
	release, err := e.acquire(cardID)
	if err != nil {
		return err
	}
	defer release()

	if _, err := e.editable(cardID); err != nil {
		return err
	}
	if err := e.store.DeleteCard(ctx, cardID); err != nil {
		return apperr.Collaborator(fmt.Sprintf("deleting card %s", cardID), err)
	}

	e.mu.Lock()
	next := e.board.Clone()
	for i, col := range next.Columns {
		cards := col.Cards[:0]
		for _, c := range col.Cards {
			if c.ID != cardID {
				cards = append(cards, c)
			}
		}
		next.Columns[i].Cards = cards
	}
	e.board = next
	if e.selected == cardID {
		e.selected = ""
	}
	e.mu.Unlock()
	e.chat.Drop(cardID)

	e.log.Infow("card deleted", "card", cardID)
	return nil
}

// Submit creates a correction request in the requested state.
func (e *Engine) Submit(ctx context.Context, c model.TimeCorrection, title string) (model.Card, error) {
	card, err := correction.NewCard(c, title)
	if err != nil {
		return model.Card{}, err
	}
	e.mu.Lock()
	loaded := e.loaded
	column, ok := e.columns[model.StatusTodo]
	e.mu.Unlock()
	if !loaded {
		return model.Card{}, ErrBoardNotLoaded
	}
	if !ok {
		return model.Card{}, ErrNoColumnForStatus.With("board has no column for status %q", model.StatusTodo)
	}

	created, err := e.store.CreateCard(ctx, column, card)
	if err != nil {
		return model.Card{}, apperr.Collaborator("creating correction request", err)
	}
	e.log.Infow("correction submitted", "card", created.ID, "date", c.Date)
	return e.reloadCard(ctx, created.ID)
}

// SendMessage appends a chat message to a card's thread. Messages are kept
// in this session only.
func (e *Engine) SendMessage(cardID, author, text string) (model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, ErrEmptyMessage
	}
	if _, err := e.lookup(cardID); err != nil {
		return model.ChatMessage{}, err
	}
	return e.chat.Append(cardID, author, text), nil
}

// Messages returns a card's thread: what the store returned merged with the
// messages sent in this session.
func (e *Engine) Messages(cardID string) ([]model.ChatMessage, error) {
	card, err := e.lookup(cardID)
	if err != nil {
		return nil, err
	}
	return e.chat.Thread(cardID, card.Messages), nil
}
