package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/model"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Move correction requests through the approval workflow",
	Long: `Correction requests move requested → in analysis → approved or
needs correction. A request that needs correction can be edited, deleted or
sent back to requested.`,
}

// transition is one review subcommand that moves a card.
type transition struct {
	use   string
	short string
	run   func(e *kanban.Engine, ctx context.Context, cardID string) (model.Card, error)
}

var transitions = []transition{
	{"select <card-id>", "Open a card; a requested card moves to in analysis", (*kanban.Engine).Select},
	{"approve <card-id>", "Approve a card in analysis", (*kanban.Engine).Approve},
	{"correct <card-id>", "Send a card in analysis back for correction", (*kanban.Engine).RequestCorrection},
	{"reanalyze <card-id>", "Return a corrected card to requested", (*kanban.Engine).RequestReanalysis},
}

var (
	editDate          string
	editPairs         []string
	editJustification string
	editDocument      string
)

var reviewShowCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show a card with its correction and messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *kanban.Engine) error {
			card, status, err := e.Card(args[0])
			if err != nil {
				return err
			}
			msgs, err := e.Messages(card.ID)
			if err != nil {
				return err
			}
			printCard(cmd.OutOrStdout(), card, status, msgs)
			return nil
		})
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete <card-id>",
	Short: "Withdraw a card that needs correction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, e *kanban.Engine) error {
			if err := e.DeleteCard(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", args[0])
			return nil
		})
	},
}

var reviewEditCmd = &cobra.Command{
	Use:   "edit <card-id>",
	Short: "Change the correction of a card that needs correction",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewEdit,
}

func init() {
	for _, t := range transitions {
		reviewCmd.AddCommand(transitionCmd(t))
	}
	f := reviewEditCmd.Flags()
	f.StringVar(&editDate, "date", "", "New day YYYY-MM-DD")
	f.StringArrayVar(&editPairs, "pair", nil, "Replacement pair HH:MM-HH:MM (repeatable)")
	f.StringVar(&editJustification, "justification", "", "New justification")
	f.StringVar(&editDocument, "document", "", "New supporting document name")
	reviewCmd.AddCommand(reviewShowCmd, reviewDeleteCmd, reviewEditCmd)
}

func transitionCmd(t transition) *cobra.Command {
	return &cobra.Command{
		Use:   t.use,
		Short: t.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd, func(ctx context.Context, e *kanban.Engine) error {
				card, err := t.run(e, ctx, args[0])
				if err != nil {
					return err
				}
				status, _ := kanban.ToFrontend(card.Status)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", card.ID, kanban.Label(status))
				return nil
			})
		},
	}
}

// withEngine opens the app, loads the board and runs fn.
func withEngine(cmd *cobra.Command, fn func(context.Context, *kanban.Engine) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	e, err := a.engine(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, e)
}

func runReviewEdit(cmd *cobra.Command, args []string) error {
	return withEngine(cmd, func(ctx context.Context, e *kanban.Engine) error {
		draft, err := e.EditCard(args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("date") {
			draft.Date = editDate
		}
		if flags.Changed("pair") {
			if draft.Pairs, err = parsePairs(editPairs); err != nil {
				return err
			}
		}
		if flags.Changed("justification") {
			draft.Justification = editJustification
		}
		if flags.Changed("document") {
			draft.DocumentName = editDocument
		}
		card, err := e.SaveEdit(ctx, args[0], draft)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved card %s\n", card.ID)
		return nil
	})
}

func printCard(w io.Writer, c model.Card, status model.FrontendStatus, msgs []model.ChatMessage) {
	fmt.Fprintf(w, "%s  [%s]\n", c.Title, kanban.Label(status))
	fmt.Fprintf(w, "  ID: %s\n", c.ID)
	if c.Correction != nil {
		fmt.Fprintf(w, "  Date: %s\n", c.Correction.Date)
		pairs := make([]string, 0, len(c.Correction.Pairs))
		for _, p := range c.Correction.Pairs {
			pairs = append(pairs, orDash(p.Entrada)+"–"+orDash(p.Saida))
		}
		fmt.Fprintf(w, "  Pairs: %s\n", strings.Join(pairs, ", "))
		fmt.Fprintf(w, "  Justification: %s\n", c.Correction.Justification)
		if c.Correction.DocumentName != "" {
			fmt.Fprintf(w, "  Document: %s\n", c.Correction.DocumentName)
		}
	}
	if len(msgs) > 0 {
		fmt.Fprintln(w, "  Messages:")
		for _, m := range msgs {
			fmt.Fprintf(w, "    %s %s: %s\n", m.SentAt.Format("2006-01-02 15:04"), m.Author, m.Text)
		}
	}
}
