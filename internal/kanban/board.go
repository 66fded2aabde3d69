package kanban

import (
	"github.com/google/uuid"

	"github.com/Tiliavir/ponto/internal/model"
)

// DefaultColumns are the columns a new correction board is seeded with.
var DefaultColumns = []struct {
	Title  string
	Status model.BackendStatus
}{
	{"Requested", model.StatusTodo},
	{"In analysis", model.StatusDoing},
	{"Needs correction", model.StatusReview},
	{"Approved", model.StatusDone},
}

// DefaultBoard returns a new board with one declared column per status.
func DefaultBoard() model.Board {
	b := model.Board{ID: uuid.NewString(), Title: "Time corrections"}
	for i, c := range DefaultColumns {
		b.Columns = append(b.Columns, model.Column{
			ID:       uuid.NewString(),
			BoardID:  b.ID,
			Title:    c.Title,
			Position: i,
			Status:   c.Status,
			Cards:    []model.Card{},
		})
	}
	return b
}
