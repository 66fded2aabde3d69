package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	from, to := timecalc.WeekRange(time.Now())
	entries, err := a.entries.ListEntries(cmd.Context(), a.cfg.UserID, from, to)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "md":
		printList(out, entries)
	default: // csv
		printCSV(out, entries)
	}
	return nil
}

// printCSV writes one row per entry; allocations are flattened to
// "project=hours" joined by semicolons.
func printCSV(w io.Writer, entries []model.TimeEntry) {
	fmt.Fprintln(w, "date,entrada1,saida1,entrada2,saida2,entrada3,saida3,total_hours,allocations")
	for _, e := range entries {
		allocs := make([]string, 0, len(e.Allocations))
		for _, al := range e.Allocations {
			allocs = append(allocs, fmt.Sprintf("%s=%.2f", al.ProjectID, al.Hours))
		}
		fields := []string{
			e.Date, e.Entrada1, e.Saida1, e.Entrada2, e.Saida2, e.Entrada3, e.Saida3,
			e.TotalHours, strings.Join(allocs, ";"),
		}
		for i, f := range fields {
			fields[i] = csvEscape(f)
		}
		fmt.Fprintln(w, strings.Join(fields, ","))
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
