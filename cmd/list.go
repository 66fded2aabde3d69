package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

var listWeek bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's entry, or this week's with --week",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries")
}

// listRange is this week with --week and today otherwise.
func listRange(now time.Time, week bool) (time.Time, time.Time) {
	if week {
		return timecalc.WeekRange(now)
	}
	return timecalc.StartOfDay(now), timecalc.EndOfDay(now)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	from, to := listRange(time.Now(), listWeek)
	entries, err := a.entries.ListEntries(cmd.Context(), a.cfg.UserID, from, to)
	if err != nil {
		return err
	}
	printList(cmd.OutOrStdout(), entries)
	return nil
}

// printList prints entries day by day.
func printList(w io.Writer, entries []model.TimeEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}
	for _, e := range entries {
		printEntry(w, e)
	}
}
