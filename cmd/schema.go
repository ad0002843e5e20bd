package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fut/internal/schema"
)

var schemaOutputPath string

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for test definitions",
		Long: `Prints the JSON schema test definitions are checked against. Point
schema_path in config.yaml at an edited copy to customise the rules.`,
		Args: cobra.NoArgs,
		RunE: runSchema,
	}
	cmd.Flags().StringVar(&schemaOutputPath, "output-file", "", "Write the schema to a file instead of stdout")
	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	raw, err := schema.Generate()
	if err != nil {
		return err
	}
	if schemaOutputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return nil
	}
	if err := os.WriteFile(schemaOutputPath, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", schemaOutputPath)
	return nil
}

func init() {
	rootCmd.AddCommand(newSchemaCmd())
}
