package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fut/internal/template"
)

var (
	templateInteractive bool
	templateForce       bool
	templateData        template.Data
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template [path]",
		Short: "Create a test definition skeleton",
		Long: `Writes a commented test definition skeleton, template.yaml by default.
Fields can be given as flags or answered interactively with --interactive.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTemplate,
	}
	cmd.Flags().BoolVarP(&templateInteractive, "interactive", "i", false, "Prompt for every field")
	cmd.Flags().BoolVar(&templateForce, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&templateData.TestID, "test-id", "", "Test identifier")
	cmd.Flags().StringVar(&templateData.Description, "description", "", "Test description")
	cmd.Flags().StringVar(&templateData.InstancePath, "instance", "", "Instance file to validate")
	cmd.Flags().StringVar(&templateData.Status, "status", "", "Expected status (success, fatal, error, warning, information)")
	cmd.Flags().StringSliceVar(&templateData.IGs, "ig", nil, "Implementation guide (repeatable)")
	cmd.Flags().StringSliceVar(&templateData.Profiles, "profile", nil, "Profile canonical url (repeatable)")
	return cmd
}

func runTemplate(cmd *cobra.Command, args []string) error {
	path := template.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}

	data := templateData
	if templateInteractive {
		rl, err := template.NewTerminal()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		defer rl.Close()

		data, err = template.Prompt(rl, data)
		if err != nil {
			return err
		}
	}

	if err := template.Write(path, data, templateForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Test definition template written to %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(newTemplateCmd())
}
