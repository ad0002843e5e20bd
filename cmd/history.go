package cmd

import (
	"github.com/spf13/cobra"

	"fut/internal/report"
)

var (
	historyOutput string
	historyLimit  int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous runs",
		Long:  `Shows the runs recorded in the CSV history file, newest last.`,
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().StringVarP(&historyOutput, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show (0 for all)")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formatter, _, err := newFormatter(cmd, historyOutput, false)
	if err != nil {
		return err
	}

	header, rows, err := report.History{Path: cfg.Output.HistoryPath}.Read()
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(rows) > historyLimit {
		rows = rows[len(rows)-historyLimit:]
	}
	return formatter.FormatHistory(header, rows)
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
