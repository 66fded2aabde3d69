package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/ledger"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

var (
	allocStart string
	allocEnd   string
	allocName  string
	allocDate  string
)

var errInvalidDate = apperr.New(apperr.KindValidation, "invalid_date", "invalid date")

var allocateCmd = &cobra.Command{
	Use:   "allocate <project>",
	Short: "Allocate part of a day's worked time to a project",
	Long: `Allocate the interval --start to --end of a day to a project. The total
allocated time of a day never exceeds the time punched on it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAllocate,
}

var allocateRemoveCmd = &cobra.Command{
	Use:   "remove <allocation-id>",
	Short: "Remove an allocation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllocateRemove,
}

func init() {
	allocateCmd.Flags().StringVar(&allocStart, "start", "", "Start time HH:MM")
	allocateCmd.Flags().StringVar(&allocEnd, "end", "", "End time HH:MM")
	allocateCmd.Flags().StringVar(&allocName, "name", "", "Optional project name")
	allocateCmd.PersistentFlags().StringVar(&allocDate, "date", "", "Day YYYY-MM-DD (default today)")
	_ = allocateCmd.MarkFlagRequired("start")
	_ = allocateCmd.MarkFlagRequired("end")
	allocateCmd.AddCommand(allocateRemoveCmd)
}

// entryFor returns the entry of date, or an empty one carrying the date when
// the day has no record yet.
func entryFor(ctx context.Context, store ledger.EntryStore, userID, date string) (model.TimeEntry, error) {
	day := time.Now()
	if date != "" {
		d, err := time.ParseInLocation(timecalc.DateLayout, date, time.Local)
		if err != nil {
			return model.TimeEntry{}, errInvalidDate.With("invalid date %q, want YYYY-MM-DD", date)
		}
		day = d
	}
	entries, err := store.ListEntries(ctx, userID, timecalc.StartOfDay(day), timecalc.EndOfDay(day))
	if err != nil {
		return model.TimeEntry{}, apperr.Collaborator("loading entry", err)
	}
	key := timecalc.DateKey(day)
	for _, e := range entries {
		if e.Date == key {
			return e, nil
		}
	}
	return model.TimeEntry{UserID: userID, Date: key}, nil
}

func runAllocate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	entry, err := entryFor(ctx, a.entries, a.cfg.UserID, allocDate)
	if err != nil {
		return err
	}
	saved, err := a.entryLedger().Allocate(ctx, entry, ledger.AllocationRequest{
		ProjectID:   args[0],
		ProjectName: allocName,
		Start:       allocStart,
		End:         allocEnd,
	})
	if err != nil {
		return err
	}
	printEntry(cmd.OutOrStdout(), saved)
	return nil
}

func runAllocateRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	entry, err := entryFor(ctx, a.entries, a.cfg.UserID, allocDate)
	if err != nil {
		return err
	}
	kept, ok := withoutAllocation(entry.Allocations, args[0])
	if !ok {
		return apperr.ErrNotFound.With("allocation %s not found on %s", args[0], entry.Date)
	}
	saved, err := a.entryLedger().ReplaceAllocations(ctx, entry, kept)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed allocation %s\n", args[0])
	printEntry(cmd.OutOrStdout(), saved)
	return nil
}

func withoutAllocation(allocs []model.Allocation, id string) ([]model.Allocation, bool) {
	kept := make([]model.Allocation, 0, len(allocs))
	found := false
	for _, al := range allocs {
		if al.ID == id {
			found = true
			continue
		}
		kept = append(kept, al)
	}
	return kept, found
}
