package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fut/internal/checker"
	"fut/internal/config"
	"fut/internal/formatting"
	"fut/internal/runner"
	"fut/internal/watch"
	"fut/pkg/logging"
)

var (
	runParallel    int
	runTimeout     time.Duration
	runWatch       bool
	runNoUpdate    bool
	runKeepOutput  bool
	runOutputDir   string
	runReportPath  string
	runHistoryPath string
	runMetricsPath string
	runOutput      string
	runVerbose     bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [definitions...]",
	Short: "Run test definitions against the FHIR validator",
	Long: `Runs test definitions against the HL7 FHIR validator and compares the
reported issues with the expected results.

Arguments may be definition files, directories (every .yaml/.yml file inside)
or patterns containing '*'. Without arguments the current directory is used.

Definitions that fail schema validation or whose instance is missing are
reported as invalid and never run. The run is recorded in the history file,
a JSON report and an optional Prometheus textfile.

Exit codes:
  0  every test passed
  1  at least one test failed or was invalid
  2  the run could not start (configuration, schema or validator unusable)

Example usage:
  fut run                          # Run every definition in the current directory
  fut run tests/ --parallel=8      # Run a directory with 8 workers
  fut run 'tests/patient*'         # Run definitions matching a pattern
  fut run --watch tests/           # Re-run whenever definitions or instances change
  fut run -o json > results.json   # Machine readable results`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runParallel, "parallel", 0, "Maximum parallel validator processes (default from config)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-test validator timeout (default from config)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run when definitions or instances change")
	runCmd.Flags().BoolVar(&runNoUpdate, "no-update", false, "Do not check for a newer validator")
	runCmd.Flags().BoolVar(&runKeepOutput, "keep-output", false, "Keep the validator report of every test")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "Directory for kept validator reports")
	runCmd.Flags().StringVar(&runReportPath, "report", "", "Path of the JSON run report")
	runCmd.Flags().StringVar(&runHistoryPath, "history", "", "Path of the CSV run history")
	runCmd.Flags().StringVar(&runMetricsPath, "metrics-file", "", "Write run metrics in Prometheus textfile format")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "table", "Output format (table, json, yaml)")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Show missing and unexpected issues per test")

	runCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if runParallel < 0 {
			return fmt.Errorf("parallel workers must be positive, got %d", runParallel)
		}
		if runTimeout < 0 {
			return fmt.Errorf("timeout must be positive, got %s", runTimeout)
		}
		return nil
	}
}

// applyRunFlags overrides cfg with the flags set on the command line.
func applyRunFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("parallel") {
		cfg.MaxThreads = runParallel
	}
	if flags.Changed("timeout") {
		cfg.Timeout = runTimeout
	}
	if runNoUpdate {
		cfg.Validator.AutoUpdate = false
	}
	if flags.Changed("keep-output") {
		cfg.Output.KeepCheckerOutput = runKeepOutput
	}
	if flags.Changed("output-dir") {
		cfg.Output.Dir = runOutputDir
		cfg.Output.KeepCheckerOutput = true
	}
	if flags.Changed("report") {
		cfg.Output.ReportPath = runReportPath
	}
	if flags.Changed("history") {
		cfg.Output.HistoryPath = runHistoryPath
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsPath = runMetricsPath
	}
	return cfg
}

func runRun(cmd *cobra.Command, args []string) error {
	// Create context with signal handling
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nReceived interrupt signal, stopping tests...")
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = applyRunFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return &config.ConfigurationError{FilePath: config.FilePath(configPath), ErrorType: config.ErrorTypeValidation, Message: err.Error(), Err: err}
	}

	formatter, format, err := newFormatter(cmd, runOutput, runVerbose)
	if err != nil {
		return err
	}

	var reporter runner.Reporter = runner.NopReporter{}
	var observer checker.DownloadObserver
	if format == formatting.FormatTable {
		reporter = runner.NewConsoleReporter(cmd.OutOrStdout(), formatter)
		observer = newSpinnerObserver(cmd.ErrOrStderr())
	}

	r, err := newRunner(cfg, newManager(cfg, observer), reporter)
	if err != nil {
		return err
	}

	runOnce := func(ctx context.Context) error {
		res, err := r.Run(ctx, args)
		if err != nil {
			return err
		}
		if format != formatting.FormatTable {
			if err := formatter.FormatRun(res.Entries, res.Summary); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !res.AllPassed() {
			return ErrTestsFailed
		}
		return nil
	}

	err = runOnce(ctx)
	if !runWatch {
		return err
	}
	if err != nil && runner.IsConfigurationFatal(err) {
		return err
	}

	dirs, err := watchDirs(r, args)
	if err != nil {
		return err
	}
	w := watch.New(dirs, watch.DefaultDebounce, runArtifacts(cfg)...)
	fmt.Fprintf(cmd.ErrOrStderr(), "👀 Watching %d director(ies), press Ctrl+C to stop\n", len(w.Dirs()))
	return w.Run(ctx, func(ctx context.Context, changed []string) {
		if err := runOnce(ctx); err != nil && !errors.Is(err, ErrTestsFailed) {
			logging.Error("Run", err, "Re-run failed")
		}
	})
}

// runArtifacts lists the files and directories a run writes, so that watch
// mode does not re-run on its own output.
func runArtifacts(cfg config.Config) []string {
	return []string{
		cfg.Output.ReportPath,
		cfg.Output.MetricsPath,
		cfg.Output.HistoryPath,
		cfg.Output.Dir,
	}
}

// watchDirs returns the directories of the selected definitions and their instances.
func watchDirs(r *runner.Runner, args []string) ([]string, error) {
	cases, err := r.Prepare(args)
	if err != nil {
		return nil, err
	}
	var paths []string
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		paths = append(paths, wd)
	}
	paths = append(paths, args...)
	for _, tc := range cases {
		paths = append(paths, filepath.Dir(tc.Source))
		if tc.InstancePath != "" {
			paths = append(paths, filepath.Dir(tc.InstancePath))
		}
	}
	return watch.DirsFor(paths...), nil
}
