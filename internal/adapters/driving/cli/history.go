package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent data source operations",
	Long: `Show the operation history, newest first.

Every mutating call (register, update, delete, extend, token rotation)
is recorded locally with its outcome.`,
	RunE: runHistory,
}

// historyLimit is the --limit flag value.
var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	ctx := cmd.Context()
	records, err := historyService.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No operations recorded yet.")
		return nil
	}

	for i := range records {
		rec := &records[i]
		outcome := "OK"
		if !rec.Success {
			outcome = "FAILED"
			if rec.Status != 0 {
				outcome = fmt.Sprintf("FAILED (%d)", rec.Status)
			}
			if rec.Detail != "" {
				outcome += ": " + rec.Detail
			}
		}
		cmd.Printf("%s  %-13s %-14s %s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Operation, rec.DataSourceID, outcome)
	}
	return nil
}
