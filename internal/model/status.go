package model

// FrontendStatus is the review stage of a correction request as the
// workflow sees it.
type FrontendStatus string

const (
	StatusRequested       FrontendStatus = "requested"
	StatusInAnalysis      FrontendStatus = "inAnalysis"
	StatusNeedsCorrection FrontendStatus = "needsCorrection"
	StatusApproved        FrontendStatus = "approved"
)

// BackendStatus is the review stage as persisted with the card.
type BackendStatus string

const (
	StatusTodo   BackendStatus = "todo"
	StatusDoing  BackendStatus = "doing"
	StatusReview BackendStatus = "review"
	StatusDone   BackendStatus = "done"
)

// BackendStatuses lists the persisted statuses in column order.
var BackendStatuses = [...]BackendStatus{StatusTodo, StatusDoing, StatusReview, StatusDone}

// Valid reports whether s is one of the four persisted statuses.
func (s BackendStatus) Valid() bool {
	for _, b := range BackendStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// Position is the column index a status falls back to when no column
// declares it. Unknown statuses return -1.
func (s BackendStatus) Position() int {
	for i, b := range BackendStatuses {
		if s == b {
			return i
		}
	}
	return -1
}
