package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ponto/internal/apperr"
)

var userFlag string

var rootCmd = &cobra.Command{
	Use:   "ponto",
	Short: "ponto – attendance punches, project allocations and time corrections",
	Long: `ponto records the daily attendance punches of an employee, splits the
worked hours across projects and runs the correction-approval board.
Settings live in ~/.ponto/config.json; every key can be overridden with a
PONTO_* environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 1 for errors the user can fix by changing the input and 2 for
// everything else.
func exitCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindBusinessRule:
		return 1
	}
	return 2
}

func init() {
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "Employee id (overrides user_id from the config)")

	rootCmd.AddCommand(punchCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(correctionCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
}
