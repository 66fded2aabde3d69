package kanban

import "github.com/Tiliavir/ponto/internal/model"

const statusCount = 4

// statusPairs is the fixed bijection between the workflow vocabulary and
// the persisted one.
var statusPairs = [...]struct {
	front model.FrontendStatus
	back  model.BackendStatus
}{
	{model.StatusRequested, model.StatusTodo},
	{model.StatusInAnalysis, model.StatusDoing},
	{model.StatusNeedsCorrection, model.StatusReview},
	{model.StatusApproved, model.StatusDone},
}

// Fails to compile unless statusPairs has exactly statusCount entries.
var _ = [1]struct{}{}[len(statusPairs)-statusCount]

// ToBackend maps a workflow status to its persisted counterpart.
func ToBackend(s model.FrontendStatus) (model.BackendStatus, bool) {
	for _, p := range statusPairs {
		if p.front == s {
			return p.back, true
		}
	}
	return "", false
}

// ToFrontend maps a persisted status to its workflow counterpart.
func ToFrontend(s model.BackendStatus) (model.FrontendStatus, bool) {
	for _, p := range statusPairs {
		if p.back == s {
			return p.front, true
		}
	}
	return "", false
}

// FrontendStatuses returns the workflow statuses in lane order.
func FrontendStatuses() []model.FrontendStatus {
	out := make([]model.FrontendStatus, 0, len(statusPairs))
	for _, p := range statusPairs {
		out = append(out, p.front)
	}
	return out
}

var transitions = map[model.FrontendStatus][]model.FrontendStatus{
	model.StatusRequested:       {model.StatusInAnalysis},
	model.StatusInAnalysis:      {model.StatusApproved, model.StatusNeedsCorrection},
	model.StatusNeedsCorrection: {model.StatusRequested},
}

// CanTransition reports whether a card may move from one status to another.
func CanTransition(from, to model.FrontendStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s model.FrontendStatus) bool {
	return len(transitions[s]) == 0
}

// Label is the display name of a workflow status.
func Label(s model.FrontendStatus) string {
	switch s {
	case model.StatusRequested:
		return "Requested"
	case model.StatusInAnalysis:
		return "In analysis"
	case model.StatusNeedsCorrection:
		return "Needs correction"
	case model.StatusApproved:
		return "Approved"
	}
	return string(s)
}
