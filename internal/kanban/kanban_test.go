package kanban_test

import (
	"testing"

	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/model"
)

func TestStatusBijection(t *testing.T) {
	for _, f := range kanban.FrontendStatuses() {
		b, ok := kanban.ToBackend(f)
		if !ok {
			t.Fatalf("no backend status for %q", f)
		}
		back, ok := kanban.ToFrontend(b)
		if !ok || back != f {
			t.Errorf("ToFrontend(ToBackend(%q)) = %q", f, back)
		}
	}
	seen := map[model.FrontendStatus]bool{}
	for _, b := range model.BackendStatuses {
		f, ok := kanban.ToFrontend(b)
		if !ok {
			t.Fatalf("no frontend status for %q", b)
		}
		if seen[f] {
			t.Errorf("%q mapped twice", f)
		}
		seen[f] = true
		again, _ := kanban.ToBackend(f)
		if again != b {
			t.Errorf("ToBackend(ToFrontend(%q)) = %q", b, again)
		}
	}
	if _, ok := kanban.ToFrontend("archived"); ok {
		t.Error("unknown backend status should not map")
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]model.FrontendStatus]bool{
		{model.StatusRequested, model.StatusInAnalysis}:       true,
		{model.StatusInAnalysis, model.StatusApproved}:        true,
		{model.StatusInAnalysis, model.StatusNeedsCorrection}: true,
		{model.StatusNeedsCorrection, model.StatusRequested}:  true,
	}
	all := kanban.FrontendStatuses()
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]model.FrontendStatus{from, to}]
			if got := kanban.CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
	if !kanban.IsTerminal(model.StatusApproved) {
		t.Error("approved should be terminal")
	}
	if kanban.IsTerminal(model.StatusNeedsCorrection) {
		t.Error("needsCorrection should not be terminal")
	}
}

func TestColumnMap(t *testing.T) {
	tests := []struct {
		name  string
		board model.Board
		want  map[model.BackendStatus]string
	}{
		{
			name: "declared statuses",
			board: model.Board{Columns: []model.Column{
				{ID: "c-done", Position: 3, Status: model.StatusDone},
				{ID: "c-todo", Position: 0, Status: model.StatusTodo},
				{ID: "c-doing", Position: 1, Status: model.StatusDoing},
				{ID: "c-review", Position: 2, Status: model.StatusReview},
			}},
			want: map[model.BackendStatus]string{
				model.StatusTodo: "c-todo", model.StatusDoing: "c-doing",
				model.StatusReview: "c-review", model.StatusDone: "c-done",
			},
		},
		{
			name: "first column wins",
			board: model.Board{Columns: []model.Column{
				{ID: "a", Position: 0, Status: model.StatusTodo},
				{ID: "b", Position: 1, Status: model.StatusTodo},
				{ID: "c", Position: 2, Status: model.StatusReview},
				{ID: "d", Position: 3, Status: model.StatusDone},
			}},
			want: map[model.BackendStatus]string{
				model.StatusTodo: "a", model.StatusDoing: "",
				model.StatusReview: "c", model.StatusDone: "d",
			},
		},
		{
			name: "inferred from cards then position",
			board: model.Board{Columns: []model.Column{
				{ID: "backlog", Position: 0},
				{ID: "wip", Position: 1, Cards: []model.Card{{ID: "x", Status: model.StatusReview}}},
				{ID: "closed", Position: 2},
			}},
			want: map[model.BackendStatus]string{
				model.StatusTodo: "backlog", model.StatusDoing: "",
				model.StatusReview: "wip", model.StatusDone: "",
			},
		},
		{
			name: "position fallback skips claimed columns",
			board: model.Board{Columns: []model.Column{
				{ID: "c-todo", Position: 0, Status: model.StatusTodo},
				{ID: "c-done", Position: 1, Status: model.StatusDone},
			}},
			want: map[model.BackendStatus]string{
				model.StatusTodo: "c-todo", model.StatusDoing: "",
				model.StatusReview: "", model.StatusDone: "c-done",
			},
		},
		{
			name: "position fallback into unlabelled columns",
			board: model.Board{Columns: []model.Column{
				{ID: "one", Position: 0},
				{ID: "two", Position: 1},
				{ID: "three", Position: 2, Status: model.StatusDone},
				{ID: "four", Position: 3},
			}},
			want: map[model.BackendStatus]string{
				model.StatusTodo: "one", model.StatusDoing: "two",
				model.StatusReview: "", model.StatusDone: "three",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kanban.ColumnMap(tt.board)
			served := map[string]model.BackendStatus{}
			for status, id := range got {
				if other, dup := served[id]; dup {
					t.Errorf("column %q serves both %q and %q", id, other, status)
				}
				served[id] = status
			}
			for status, want := range tt.want {
				if want == "" {
					if id, ok := got[status]; ok {
						t.Errorf("%q mapped to %q, want unmapped", status, id)
					}
					continue
				}
				if got[status] != want {
					t.Errorf("%q -> %q, want %q", status, got[status], want)
				}
			}
		})
	}
}

func TestProject(t *testing.T) {
	board := model.Board{Columns: []model.Column{
		{ID: "b", Position: 1, Cards: []model.Card{{ID: "3", Status: model.StatusDoing}}},
		{ID: "a", Position: 0, Cards: []model.Card{
			{ID: "1", Status: model.StatusTodo},
			{ID: "2", Status: model.StatusDone},
			{ID: "4", Status: model.StatusTodo},
			{ID: "5", Status: "archived"},
		}},
	}}
	lanes := kanban.Project(board)
	if len(lanes) != 4 {
		t.Fatalf("lanes = %d, want 4", len(lanes))
	}
	wantOrder := []model.FrontendStatus{model.StatusRequested, model.StatusInAnalysis, model.StatusNeedsCorrection, model.StatusApproved}
	wantCards := [][]string{{"1", "4"}, {"3"}, {}, {"2"}}
	for i, lane := range lanes {
		if lane.Status != wantOrder[i] {
			t.Errorf("lane %d status = %q, want %q", i, lane.Status, wantOrder[i])
		}
		if len(lane.Cards) != len(wantCards[i]) {
			t.Errorf("lane %q has %d cards, want %d", lane.Status, len(lane.Cards), len(wantCards[i]))
			continue
		}
		for j, c := range lane.Cards {
			if c.ID != wantCards[i][j] {
				t.Errorf("lane %q card %d = %q, want %q", lane.Status, j, c.ID, wantCards[i][j])
			}
		}
	}
	if lanes[1].Label != "In analysis" {
		t.Errorf("label = %q", lanes[1].Label)
	}
}
