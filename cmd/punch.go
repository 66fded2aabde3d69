package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/ledger"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

var punchCmd = &cobra.Command{
	Use:   "punch",
	Short: "Register the next attendance punch for today",
	Args:  cobra.NoArgs,
	RunE:  runPunch,
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's punches, total and allocations",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

func runPunch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	l, err := a.ledger(ctx)
	if err != nil {
		return err
	}
	today, err := l.Today(ctx, a.cfg.UserID)
	if err != nil {
		return err
	}
	p, err := l.RegisterPunch(ctx, a.cfg.UserID, today)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Registered %s at %s\n", p.Field, p.Value)
	if p.Warning != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", p.Warning)
	}
	fmt.Fprintf(out, "Today: %s worked\n", timecalc.FormatDuration(ledger.TotalMinutes(p.Entry)))
	return nil
}

func runToday(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	today, err := a.entryLedger().Today(cmd.Context(), a.cfg.UserID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if today == nil {
		fmt.Fprintln(out, "No punches today.")
		return nil
	}
	printEntry(out, *today)
	return nil
}

// printEntry prints one day: its pairs, the worked total and the allocations.
func printEntry(w io.Writer, e model.TimeEntry) {
	fmt.Fprintln(w, e.Date)
	for i, p := range e.Pairs() {
		if p.Entrada == "" && p.Saida == "" {
			continue
		}
		fmt.Fprintf(w, "  %d. %s–%s\n", i+1, orDash(p.Entrada), orDash(p.Saida))
	}
	worked := ledger.TotalMinutes(e)
	fmt.Fprintf(w, "  Worked: %s\n", timecalc.FormatDuration(worked))

	if len(e.Allocations) == 0 {
		return
	}
	fmt.Fprintln(w, "  Allocations:")
	for _, al := range e.Allocations {
		name := al.ProjectID
		if al.ProjectName != "" {
			name += " (" + al.ProjectName + ")"
		}
		fmt.Fprintf(w, "    %-24s%6.2fh  %s\n", name, al.Hours, al.ID)
	}
	if worked > 0 {
		fmt.Fprintf(w, "  Unallocated: %s\n", timecalc.FormatDuration(ledger.RemainingMinutes(e)))
	}
}

func orDash(s string) string {
	if s == "" {
		return "--:--"
	}
	return s
}
