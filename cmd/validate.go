package cmd

import (
	"github.com/spf13/cobra"

	"fut/internal/report"
)

var validateOutput string

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [definitions...]",
		Short: "Check test definitions without running the validator",
		Long: `Checks test definitions against the definition schema and resolves their
instance files, without downloading or running the validator.

Exits with code 1 when any definition is invalid.`,
		RunE: runValidate,
	}
	cmd.Flags().StringVarP(&validateOutput, "output", "o", "table", "Output format (table, json, yaml)")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formatter, _, err := newFormatter(cmd, validateOutput, false)
	if err != nil {
		return err
	}
	r, err := newRunner(cfg, nil, nil)
	if err != nil {
		return err
	}

	entries, err := r.Validate(args)
	if err != nil {
		return err
	}
	tally := report.Tally(entries)
	if err := formatter.FormatValidation(entries, tally); err != nil {
		return err
	}
	if tally.Invalid > 0 {
		return ErrTestsFailed
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newValidateCmd())
}
