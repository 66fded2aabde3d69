package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/ledger"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show this week's worked and allocated hours per project",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type projectTotal struct {
	Project string `json:"project"`
	Minutes int    `json:"minutes"`
}

type weekReport struct {
	Week        string         `json:"week"`
	Projects    []projectTotal `json:"projects"`
	Worked      int            `json:"worked_minutes"`
	Unallocated int            `json:"unallocated_minutes"`
}

// buildReport sums allocations per project and punched time over entries.
func buildReport(label string, entries []model.TimeEntry) weekReport {
	totals := map[string]int{}
	r := weekReport{Week: label, Projects: []projectTotal{}}
	allocated := 0
	for _, e := range entries {
		r.Worked += ledger.TotalMinutes(e)
		for _, al := range e.Allocations {
			m := timecalc.MinutesFromHours(al.Hours)
			totals[al.ProjectID] += m
			allocated += m
		}
	}
	for p, m := range totals {
		r.Projects = append(r.Projects, projectTotal{Project: p, Minutes: m})
	}
	sort.Slice(r.Projects, func(i, j int) bool { return r.Projects[i].Project < r.Projects[j].Project })
	if r.Worked > allocated {
		r.Unallocated = r.Worked - allocated
	}
	return r
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	now := time.Now()
	from, to := timecalc.WeekRange(now)
	entries, err := a.entries.ListEntries(cmd.Context(), a.cfg.UserID, from, to)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), buildReport(timecalc.ISOWeekLabel(now), entries), reportFormat)
}

func writeReport(w io.Writer, r weekReport, format string) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "project,duration_minutes")
		for _, p := range r.Projects {
			fmt.Fprintf(w, "%s,%d\n", csvEscape(p.Project), p.Minutes)
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default: // md
		fmt.Fprintf(w, "Week %s\n", r.Week)
		fmt.Fprintln(w, "--------------------------------")
		for _, p := range r.Projects {
			fmt.Fprintf(w, "%-20s%s\n", p.Project, timecalc.FormatDuration(p.Minutes))
		}
		fmt.Fprintf(w, "%-20s%s\n", "Unallocated", timecalc.FormatDuration(r.Unallocated))
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-20s%s\n", "Worked", timecalc.FormatDuration(r.Worked))
	}
	return nil
}
