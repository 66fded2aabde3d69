package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/correction"
	"github.com/Tiliavir/ponto/internal/model"
)

var (
	corrDate          string
	corrPairs         []string
	corrJustification string
	corrDocument      string
	corrTitle         string
	corrFromEntry     bool
)

var correctionCmd = &cobra.Command{
	Use:   "correction",
	Short: "Request corrections of recorded days",
}

var correctionSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a time-correction request to the review board",
	Example: `  ponto correction submit --date 2026-10-16 --pair 08:00-12:00 --pair 13:00-17:00 \
    --justification "badge reader offline"`,
	Args: cobra.NoArgs,
	RunE: runCorrectionSubmit,
}

func init() {
	f := correctionSubmitCmd.Flags()
	f.StringVar(&corrDate, "date", "", "Day to correct, YYYY-MM-DD")
	f.StringArrayVar(&corrPairs, "pair", nil, "Entrada/saida pair HH:MM-HH:MM (repeatable, up to 3)")
	f.StringVar(&corrJustification, "justification", "", "Why the record is wrong")
	f.StringVar(&corrDocument, "document", "", "Name of a supporting document")
	f.StringVar(&corrTitle, "title", "", "Card title (default \"Time correction <date>\")")
	f.BoolVar(&corrFromEntry, "from-entry", false, "Start from the pairs recorded on --date")
	_ = correctionSubmitCmd.MarkFlagRequired("date")
	correctionCmd.AddCommand(correctionSubmitCmd)
}

// parsePairs reads repeated --pair values.
func parsePairs(values []string) ([]model.TimePair, error) {
	pairs := make([]model.TimePair, 0, len(values))
	for _, v := range values {
		p, err := correction.ParsePair(v)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func runCorrectionSubmit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	req := model.TimeCorrection{Date: corrDate}
	if corrFromEntry {
		entry, err := entryFor(ctx, a.entries, a.cfg.UserID, corrDate)
		if err != nil {
			return err
		}
		req = correction.FromEntry(entry)
	}
	if len(corrPairs) > 0 {
		if req.Pairs, err = parsePairs(corrPairs); err != nil {
			return err
		}
	}
	req.Justification = corrJustification
	req.DocumentName = corrDocument

	// Validate before loading the board so a bad request never reaches the store.
	if err := correction.Validate(req); err != nil {
		return err
	}
	e, err := a.engine(ctx)
	if err != nil {
		return err
	}
	card, err := e.Submit(ctx, req, corrTitle)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Submitted %q as card %s\n", card.Title, card.ID)
	return nil
}
