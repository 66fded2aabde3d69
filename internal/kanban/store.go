package kanban

import (
	"context"

	"github.com/Tiliavir/ponto/internal/model"
)

// BoardStore is the kanban collaborator. A non-zero version passed to
// MoveCard must match the stored card or the call fails with a conflict.
type BoardStore interface {
	FetchBoards(ctx context.Context) ([]model.Board, error)
	CreateCard(ctx context.Context, columnID string, card model.Card) (model.Card, error)
	MoveCard(ctx context.Context, cardID, columnID string, version int64) (model.Card, error)
	UpdateCard(ctx context.Context, cardID string, patch model.CardPatch) (model.Card, error)
	DeleteCard(ctx context.Context, cardID string) error
}
