package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/kanban"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the correction board grouped by workflow status",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	e, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, e.Board().Title)
	printLanes(out, e.Lanes())
	return nil
}

func printLanes(w io.Writer, lanes []kanban.Lane) {
	for _, lane := range lanes {
		fmt.Fprintf(w, "\n%s (%d)\n", lane.Label, len(lane.Cards))
		fmt.Fprintln(w, "--------------------------------")
		for _, c := range lane.Cards {
			date := ""
			if c.Correction != nil {
				date = c.Correction.Date
			}
			fmt.Fprintf(w, "  %-36s  %-10s  %s\n", c.ID, date, c.Title)
		}
	}
}
