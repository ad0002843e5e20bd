package execution

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"fut/internal/checker"
	"fut/internal/reconcile"
	"fut/internal/testcase"
	"fut/pkg/logging"
)

const (
	// killGrace bounds how long Wait blocks on pipes after the process group was killed.
	killGrace = 5 * time.Second
	// outputTail is how much trailing validator console output is kept for debug logs.
	outputTail = 8 << 10
)

// Config holds the per-run execution settings.
type Config struct {
	Runtime     string
	SpecVersion string
	OutputDir   string
	Timeout     time.Duration
	Workers     int
}

// Outcome is the result of one case. Skipped cases were Invalid and never ran.
type Outcome struct {
	Case       *testcase.TestCase
	Ordinal    int
	ReportPath string
	Duration   time.Duration
	ExitCode   int
	Skipped    bool
	Synthetic  bool
	Cause      string
}

// Engine runs validator processes for a batch of cases.
type Engine struct {
	cfg     Config
	checker checker.Handle
}

// New creates an Engine bound to one validator for its whole lifetime.
func New(h checker.Handle, cfg Config) *Engine {
	if cfg.Runtime == "" {
		cfg.Runtime = "java"
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Engine{cfg: cfg, checker: h}
}

// RunAll executes every Valid case and yields one Outcome per input in completion order.
// The sequence can be consumed once. Stopping early cancels work that has
// not finished; workers never block on a consumer that went away.
func (e *Engine) RunAll(ctx context.Context, cases []*testcase.TestCase) iter.Seq[Outcome] {
	var consumed atomic.Bool

	return func(yield func(Outcome) bool) {
		if consumed.Swap(true) {
			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		results := make(chan Outcome, len(cases))
		go func() {
			defer close(results)

			var g errgroup.Group
			g.SetLimit(e.cfg.Workers)
			for i, tc := range cases {
				if tc.State() != testcase.StateValid {
					results <- Outcome{Case: tc, Ordinal: i, Skipped: true}
					continue
				}
				g.Go(func() error {
					results <- e.run(ctx, i, tc)
					return nil
				})
			}
			_ = g.Wait()
		}()

		for o := range results {
			if !yield(o) {
				return
			}
		}
	}
}

func (e *Engine) outputPath(ordinal int, tc *testcase.TestCase) string {
	base := filepath.Base(tc.InstancePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(e.cfg.OutputDir, fmt.Sprintf("%s_%d.json", stem, ordinal))
}

func (e *Engine) run(ctx context.Context, ordinal int, tc *testcase.TestCase) Outcome {
	out := Outcome{Case: tc, Ordinal: ordinal, ReportPath: e.outputPath(ordinal, tc), ExitCode: -1}
	_ = os.Remove(out.ReportPath)

	start := time.Now()
	switch {
	case ctx.Err() != nil:
		e.synthesize(&out, reconcile.CodeException, "run cancelled before the validator started")
	case !fileExists(tc.InstancePath):
		e.synthesize(&out, reconcile.CodeException, "instance file disappeared: "+tc.InstancePath)
	default:
		e.invoke(ctx, tc, &out, start)
	}
	if out.Duration == 0 {
		out.Duration = time.Since(start)
	}

	if err := tc.MarkFinished(out.ReportPath, out.Duration); err != nil {
		logging.Error("Execution", err, "Could not finish test case %s", tc.Name())
	}
	return out
}

func (e *Engine) invoke(ctx context.Context, tc *testcase.TestCase, out *Outcome, start time.Time) {
	tctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	args := append([]string{
		"-jar", e.checker.Path(),
		tc.InstancePath,
		"-output", out.ReportPath,
		"-version", e.cfg.SpecVersion,
	}, tc.Args...)

	cmd := exec.CommandContext(tctx, e.cfg.Runtime, args...)
	configureProcAttr(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd.Process.Pid)
	}
	cmd.WaitDelay = killGrace

	console := &tailBuffer{limit: outputTail}
	cmd.Stdout = console
	cmd.Stderr = console

	logging.Debug("Execution", "Running %s %s", e.cfg.Runtime, strings.Join(args, " "))
	err := cmd.Run()
	out.Duration = time.Since(start)
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if code, text, failed := e.classify(ctx, tctx, err, out.ReportPath); failed {
		if code == reconcile.CodeTimeout {
			out.Duration = e.cfg.Timeout
		}
		if code == reconcile.CodeNotFound {
			logging.Debug("Execution", "Validator output for %s:\n%s", tc.Name(), console.String())
			text = fmt.Sprintf("validator exited with code %d without writing a report", out.ExitCode)
		}
		e.synthesize(out, code, text)
	}
}

// classify decides whether a finished validator process produced a usable
// report. A clean exit with a report wins over a cancellation or deadline
// that landed after the process was already done.
func (e *Engine) classify(ctx, tctx context.Context, err error, reportPath string) (code, text string, failed bool) {
	if err == nil && fileExists(reportPath) {
		return "", "", false
	}
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		return reconcile.CodeException, "run cancelled while the validator was running", true
	case errors.Is(tctx.Err(), context.DeadlineExceeded):
		return reconcile.CodeTimeout, fmt.Sprintf("validator timed out after %s", e.cfg.Timeout), true
	case err != nil && !errors.As(err, &exitErr):
		return reconcile.CodeException, fmt.Sprintf("failed to start validator: %v", err), true
	case !fileExists(reportPath):
		return reconcile.CodeNotFound, "", true
	}
	return "", "", false
}

func (e *Engine) synthesize(out *Outcome, code, text string) {
	out.Synthetic = true
	out.Cause = text
	logging.Warn("Execution", "%s: %s", out.Case.Name(), text)
	if err := reconcile.WriteFatalReport(out.ReportPath, code, text); err != nil {
		logging.Error("Execution", err, "Could not record failure for %s", out.Case.Name())
	}
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   []byte
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	if len(p) >= t.limit {
		t.buf = append(t.buf[:0], p[len(p)-t.limit:]...)
		return len(p), nil
	}
	if over := len(t.buf) + len(p) - t.limit; over > 0 {
		t.buf = t.buf[:copy(t.buf, t.buf[over:])]
	}
	t.buf = append(t.buf, p...)
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
