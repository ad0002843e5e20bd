package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	validatorOutput string
	validatorForce  bool
)

func newValidatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validator",
		Short: "Manage the HL7 FHIR validator jar",
		Long: `Inspects and updates the validator_cli.jar used to run tests. The jar lives in
the configuration directory unless validator.path is set.`,
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the installed and latest validator versions",
		Args:  cobra.NoArgs,
		RunE:  runValidatorStatus,
	}
	status.Flags().StringVarP(&validatorOutput, "output", "o", "table", "Output format (table, json, yaml)")

	update := &cobra.Command{
		Use:   "update",
		Short: "Install or update the validator",
		Args:  cobra.NoArgs,
		RunE:  runValidatorUpdate,
	}
	update.Flags().BoolVar(&validatorForce, "force", false, "Download the latest release even when the installed one is current")

	cmd.AddCommand(status, update)
	return cmd
}

func runValidatorStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formatter, _, err := newFormatter(cmd, validatorOutput, false)
	if err != nil {
		return err
	}
	return formatter.FormatStatus(newManager(cfg, nil).Status(cmd.Context()))
}

func runValidatorUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	h, err := newManager(cfg, newSpinnerObserver(cmd.ErrOrStderr())).Update(cmd.Context(), validatorForce)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Validator %s installed at %s\n", h.Version(), h.Path())
	return nil
}

func init() {
	rootCmd.AddCommand(newValidatorCmd())
}
