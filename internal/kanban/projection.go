package kanban

import (
	"sort"

	"github.com/Tiliavir/ponto/internal/model"
)

// Lane is one display column of the review board.
type Lane struct {
	Status model.FrontendStatus
	Label  string
	Cards  []model.Card
}

// Project groups the cards of b into the four workflow lanes, keeping board
// order inside each lane. Cards with an unknown status are left out.
func Project(b model.Board) []Lane {
	lanes := make([]Lane, 0, statusCount)
	index := make(map[model.FrontendStatus]int, statusCount)
	for _, s := range FrontendStatuses() {
		index[s] = len(lanes)
		lanes = append(lanes, Lane{Status: s, Label: Label(s), Cards: []model.Card{}})
	}
	for _, col := range orderedColumns(b) {
		for _, c := range col.Cards {
			front, ok := ToFrontend(c.Status)
			if !ok {
				continue
			}
			i := index[front]
			lanes[i].Cards = append(lanes[i].Cards, c)
		}
	}
	return lanes
}

// ColumnMap resolves the column each persisted status moves cards into.
// A column's status is its declared one, else that of its first card; the
// first column found for a status wins. Statuses left over fall back to the
// column at their position, but only when that column has no status of its
// own and serves no other status. A column never serves two statuses.
func ColumnMap(b model.Board) map[model.BackendStatus]string {
	cols := orderedColumns(b)
	m := make(map[model.BackendStatus]string, statusCount)
	claimed := make(map[string]bool, len(cols))
	for _, col := range cols {
		s := columnStatus(col)
		if !s.Valid() {
			continue
		}
		if _, taken := m[s]; !taken {
			m[s] = col.ID
			claimed[col.ID] = true
		}
	}
	for _, s := range model.BackendStatuses {
		if _, ok := m[s]; ok {
			continue
		}
		pos := s.Position()
		if pos >= len(cols) {
			continue
		}
		col := cols[pos]
		if claimed[col.ID] || columnStatus(col) != "" {
			continue
		}
		m[s] = col.ID
		claimed[col.ID] = true
	}
	return m
}

func columnStatus(col model.Column) model.BackendStatus {
	if col.Status != "" {
		return col.Status
	}
	if len(col.Cards) > 0 {
		return col.Cards[0].Status
	}
	return ""
}

func orderedColumns(b model.Board) []model.Column {
	cols := append([]model.Column(nil), b.Columns...)
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })
	return cols
}
