package ledger

import (
	"context"
	"strings"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// AllocationRequest proposes assigning the interval Start..End of a day to a project.
type AllocationRequest struct {
	ProjectID   string
	ProjectName string
	Start       string
	End         string
}

// AllocatedMinutes sums the allocations of e, each rounded to whole minutes.
func AllocatedMinutes(e model.TimeEntry) int {
	return sumMinutes(e.Allocations)
}

// RemainingMinutes is the worked time of e not yet allocated. It is negative
// only for records that already break the cap.
func RemainingMinutes(e model.TimeEntry) int {
	return TotalMinutes(e) - AllocatedMinutes(e)
}

func sumMinutes(allocs []model.Allocation) int {
	sum := 0
	for _, a := range allocs {
		sum += timecalc.MinutesFromHours(a.Hours)
	}
	return sum
}

// checkCapacity rejects allocs whose total exceeds the punched time of e.
// A day without punched time has no cap.
func checkCapacity(e model.TimeEntry, allocs []model.Allocation) error {
	worked := TotalMinutes(e)
	if worked <= 0 {
		return nil
	}
	if sum := sumMinutes(allocs); sum > worked {
		return ErrAllocationExceedsWorked.With("allocations would total %s but only %s was worked",
			timecalc.FormatClock(sum), timecalc.FormatClock(worked))
	}
	return nil
}

// ValidateAllocation checks req against e without contacting the store and
// returns the allocation that would be added.
func ValidateAllocation(e model.TimeEntry, req AllocationRequest) (model.Allocation, error) {
	project := strings.TrimSpace(req.ProjectID)
	if project == "" {
		return model.Allocation{}, ErrProjectRequired
	}
	minutes, ok := timecalc.IntervalMinutes(req.Start, req.End)
	if !ok {
		return model.Allocation{}, ErrInvalidInterval.With("invalid interval %q-%q: end time must be after start time", req.Start, req.End)
	}
	hours := timecalc.HoursFromMinutes(minutes)
	if hours <= 0 {
		return model.Allocation{}, ErrZeroDuration
	}
	alloc := model.Allocation{
		ProjectID:   project,
		ProjectName: strings.TrimSpace(req.ProjectName),
		Hours:       hours,
	}
	proposed := append(append([]model.Allocation(nil), e.Allocations...), alloc)
	if err := checkCapacity(e, proposed); err != nil {
		return model.Allocation{}, err
	}
	return alloc, nil
}

// Allocate validates req against e and submits the full allocation list.
// The returned entry is the store's, since allocation ids are assigned there.
func (l *Ledger) Allocate(ctx context.Context, e model.TimeEntry, req AllocationRequest) (model.TimeEntry, error) {
	alloc, err := ValidateAllocation(e, req)
	if err != nil {
		return model.TimeEntry{}, err
	}
	all := append(append([]model.Allocation(nil), e.Allocations...), alloc)
	saved, err := l.submitAllocations(ctx, e, all)
	if err != nil {
		return model.TimeEntry{}, err
	}
	l.log.Infow("hours allocated", "entry", saved.ID, "project", alloc.ProjectID, "hours", alloc.Hours)
	return saved, nil
}

// ReplaceAllocations validates a complete proposed set and submits it in
// place of the current one, which is how allocations are edited or removed.
func (l *Ledger) ReplaceAllocations(ctx context.Context, e model.TimeEntry, allocs []model.Allocation) (model.TimeEntry, error) {
	for _, a := range allocs {
		if strings.TrimSpace(a.ProjectID) == "" {
			return model.TimeEntry{}, ErrProjectRequired
		}
		if timecalc.MinutesFromHours(a.Hours) <= 0 {
			return model.TimeEntry{}, ErrZeroDuration
		}
	}
	if err := checkCapacity(e, allocs); err != nil {
		return model.TimeEntry{}, err
	}
	saved, err := l.submitAllocations(ctx, e, allocs)
	if err != nil {
		return model.TimeEntry{}, err
	}
	l.log.Infow("allocations replaced", "entry", saved.ID, "count", len(allocs))
	return saved, nil
}

func (l *Ledger) submitAllocations(ctx context.Context, e model.TimeEntry, allocs []model.Allocation) (model.TimeEntry, error) {
	if allocs == nil {
		allocs = []model.Allocation{}
	}
	var (
		saved model.TimeEntry
		err   error
	)
	if e.ID == "" {
		date := e.Date
		if date == "" {
			date = timecalc.DateKey(l.now())
		}
		saved, err = l.store.CreateEntry(ctx, model.NewEntry{
			UserID:      e.UserID,
			Date:        date,
			Allocations: allocs,
		})
	} else {
		saved, err = l.store.UpdateEntry(ctx, e.ID, model.EntryPatch{
			Allocations: &allocs,
			Version:     e.Version,
		})
	}
	if err != nil {
		return model.TimeEntry{}, apperr.Collaborator("saving allocations", err)
	}
	return saved, nil
}
