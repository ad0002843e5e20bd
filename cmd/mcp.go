package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fut/internal/agent"
	"fut/internal/report"
	"fut/internal/runner"
	"fut/pkg/logging"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve fut as an MCP server over stdio",
		Long: `Runs an MCP server on stdin/stdout exposing the run_tests,
validate_definitions, get_results, get_history and validator_status tools,
so AI assistants can run conformance tests. Logging is disabled because
stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	logging.InitSilent()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mgr := newManager(cfg, nil)
	r, err := newRunner(cfg, mgr, runner.NopReporter{})
	if err != nil {
		return err
	}

	srv := agent.NewServer(GetVersion(), r, mgr, report.History{Path: cfg.Output.HistoryPath})
	if err := srv.Start(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newMCPCmd())
}
