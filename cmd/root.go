package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fut/internal/config"
	"fut/internal/runner"
	"fut/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates every test passed.
	ExitCodeSuccess = 0
	// ExitCodeError indicates failed tests, invalid definitions or a general error.
	ExitCodeError = 1
	// ExitCodeConfiguration indicates the run could not start: unusable settings,
	// schema or validator.
	ExitCodeConfiguration = 2
)

// ErrTestsFailed is returned by commands whose tests or definitions did not all pass.
var ErrTestsFailed = errors.New("not all tests passed")

var (
	// configPath is the directory holding config.yaml and the validator jar.
	configPath string
	logLevel   string
	logFormat  string
)

// rootCmd represents the base command for the fut application.
var rootCmd = &cobra.Command{
	Use:   "fut",
	Short: "Run FHIR conformance tests against the HL7 validator",
	Long: `fut runs YAML test definitions against the official HL7 FHIR validator
(validator_cli.jar) and compares the issues it reports with the expected ones.

Each definition names an instance to validate, the validation context (IGs,
profiles, extra resources) and the expected status and issue codes per severity.
The validator is downloaded and kept up to date automatically.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "fut version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) || runner.IsConfigurationFatal(err) {
		return ExitCodeConfiguration
	}

	return ExitCodeError
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	switch logFormat {
	case logging.FormatText:
		logging.InitForCLI(level, os.Stderr)
	case logging.FormatJSON:
		logging.InitForJSON(level, os.Stderr)
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", logFormat)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", config.GetDefaultConfigPathOrPanic(), "Configuration directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "Log format (text, json)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
