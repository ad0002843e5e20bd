package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fut/internal/checker"
	"fut/internal/config"
	"fut/internal/execution"
	"fut/internal/prepare"
	"fut/internal/reconcile"
	"fut/internal/report"
	"fut/internal/schema"
	"fut/internal/testcase"
	"fut/pkg/logging"
)

// Checker is the part of checker.Manager a run needs.
type Checker interface {
	EnsureCurrent(ctx context.Context) (checker.Handle, error)
}

// Deps are the collaborators of a Runner.
type Deps struct {
	Config    config.Config
	Validator *schema.Validator
	Checker   Checker
	Reporter  Reporter
	WorkDir   string
}

// Runner executes batches of conformance tests.
type Runner struct {
	cfg       config.Config
	validator *schema.Validator
	checker   Checker
	reporter  Reporter
	workDir   string
}

// New creates a Runner. A nil Reporter discards progress.
func New(d Deps) *Runner {
	if d.Reporter == nil {
		d.Reporter = NopReporter{}
	}
	if d.WorkDir == "" {
		d.WorkDir, _ = os.Getwd()
	}
	return &Runner{
		cfg:       d.Config,
		validator: d.Validator,
		checker:   d.Checker,
		reporter:  d.Reporter,
		workDir:   d.WorkDir,
	}
}

// Result is everything a run produced.
type Result struct {
	Entries []report.Entry `json:"tests"`
	Summary report.Summary `json:"summary"`
}

// AllPassed reports whether every test passed.
func (r *Result) AllPassed() bool {
	return r.Summary.Failed == 0
}

// Prepare discovers and prepares the definitions named by args without running them.
func (r *Runner) Prepare(args []string) ([]*testcase.TestCase, error) {
	files, err := prepare.Discover(args, r.workDir)
	if err != nil {
		return nil, err
	}
	logging.Debug("Runner", "Discovered %d definition file(s)", len(files))

	p := prepare.New(r.validator, testcase.NewArena())
	return p.PrepareAll(prepare.LoadAll(files)), nil
}

// Validate prepares definitions and reports their validity only.
func (r *Runner) Validate(args []string) ([]report.Entry, error) {
	cases, err := r.Prepare(args)
	if err != nil {
		return nil, err
	}
	entries := make([]report.Entry, 0, len(cases))
	for _, tc := range cases {
		entries = append(entries, report.CaseEntry(tc))
	}
	return entries, nil
}

// Run executes the definitions named by args and records the run.
func (r *Runner) Run(ctx context.Context, args []string) (*Result, error) {
	start := time.Now()

	cases, err := r.Prepare(args)
	if err != nil {
		return nil, err
	}

	var handle checker.Handle
	if anyValid(cases) {
		handle, err = r.checker.EnsureCurrent(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigurationFatal, err)
		}
	}

	outputDir, cleanup, err := r.outputDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	workers := execution.DefaultWorkerCount(r.cfg.MaxThreads)
	engine := execution.New(handle, execution.Config{
		Runtime:     r.cfg.JavaPath,
		SpecVersion: r.cfg.Validator.SpecVersion,
		OutputDir:   outputDir,
		Timeout:     r.cfg.Timeout,
		Workers:     workers,
	})

	r.reporter.ReportStart(len(cases), workers, handle)

	entries := make([]report.Entry, 0, len(cases))
	for outcome := range engine.RunAll(ctx, cases) {
		entry := report.NewEntry(outcome, reconcileOutcome(outcome))
		if !r.cfg.Output.KeepCheckerOutput {
			entry.ReportPath = ""
		}
		entries = append(entries, entry)
		r.reporter.ReportResult(entry, len(entries), len(cases))
	}

	summary := report.Aggregate(entries, time.Since(start), handle.Version())
	r.persist(entries, summary)
	r.reporter.ReportSummary(entries, summary)

	logging.Info("Runner", "Run %s finished: %d passed, %d failed, %d invalid", summary.RunID, summary.Passed, summary.Failed, summary.Invalid)
	return &Result{Entries: entries, Summary: summary}, nil
}

func reconcileOutcome(o execution.Outcome) reconcile.Record {
	tc := o.Case
	if o.Skipped {
		return reconcile.Invalid(tc.Expectations)
	}
	issues, err := reconcile.ReadReport(o.ReportPath)
	if err != nil {
		logging.Warn("Runner", "Unreadable validator report for %s: %v", tc.Name(), err)
		issues = []reconcile.Issue{{
			Severity: testcase.SeverityFatal,
			Code:     reconcile.CodeException,
			Detail:   "unreadable validator report: " + err.Error(),
		}}
	}
	return reconcile.Reconcile(issues, tc.Expectations)
}

// outputDir returns where validator reports go. Unless they are kept, a temporary directory is used and removed afterwards.
func (r *Runner) outputDir() (string, func(), error) {
	if r.cfg.Output.KeepCheckerOutput {
		if err := os.MkdirAll(r.cfg.Output.Dir, 0o755); err != nil {
			return "", nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		return r.cfg.Output.Dir, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "fut-run-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary output directory: %w", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			logging.Warn("Runner", "Could not remove %s: %v", dir, err)
		}
	}, nil
}

func (r *Runner) persist(entries []report.Entry, s report.Summary) {
	out := r.cfg.Output
	if out.HistoryPath != "" {
		if err := (report.History{Path: out.HistoryPath}).Append(s); err != nil {
			logging.Error("Runner", err, "Could not append run to history")
		}
	}
	if out.ReportPath != "" {
		if err := report.WriteJSON(out.ReportPath, entries, s); err != nil {
			logging.Error("Runner", err, "Could not write run report")
		}
	}
	if out.MetricsPath != "" {
		if err := report.WriteMetrics(out.MetricsPath, s); err != nil {
			logging.Error("Runner", err, "Could not write metrics")
		}
	}
}

func anyValid(cases []*testcase.TestCase) bool {
	for _, tc := range cases {
		if tc.State() == testcase.StateValid {
			return true
		}
	}
	return false
}

// IsConfigurationFatal reports whether err stopped the run before tests executed.
func IsConfigurationFatal(err error) bool {
	var fatal *checker.FatalError
	return errors.Is(err, ErrConfigurationFatal) || errors.As(err, &fatal) || errors.Is(err, schema.ErrSchemaUnavailable)
}
