package execution

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fut/internal/checker"
	"fut/internal/reconcile"
	"fut/internal/testcase"
)

// fakeValidator mimics "java -jar validator_cli.jar <instance> -output <out> ...".
// The instance file name selects the behaviour.
const fakeValidator = `#!/bin/sh
instance="$3"
out="$5"
case "$(basename "$instance")" in
  slow*) sleep 10 ;;
  silent*) exit 0 ;;
  failing*)
    printf '{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"invalid","details":{"text":"bad"}}]}' > "$out"
    exit 1 ;;
  *) printf '{"resourceType":"OperationOutcome","issue":[{"severity":"information","code":"informational","details":{"text":"All OK"}}]}' > "$out" ;;
esac
`

func setupEngine(t *testing.T, timeout time.Duration, workers int) (*Engine, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake validator is a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-java")
	require.NoError(t, os.WriteFile(script, []byte(fakeValidator), 0o755))

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	e := New(checker.NewHandle(filepath.Join(dir, "validator_cli.jar"), "6.3.11"), Config{
		Runtime:     script,
		SpecVersion: "4.0.1",
		OutputDir:   outDir,
		Timeout:     timeout,
		Workers:     workers,
	})
	return e, dir
}

func validCase(t *testing.T, arena *testcase.Arena, dir, instance string) *testcase.TestCase {
	t.Helper()
	path := filepath.Join(dir, instance)
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))
	tc := arena.New(filepath.Join(dir, instance+".yaml"))
	tc.InstancePath = path
	require.NoError(t, tc.MarkValid())
	return tc
}

func collect(seq func(func(Outcome) bool)) []Outcome {
	var out []Outcome
	for o := range seq {
		out = append(out, o)
	}
	return out
}

func TestWorkerCount(t *testing.T) {
	tests := []struct {
		configured, cores, want int
	}{
		{4, 16, 4},
		{8, 4, 2},
		{8, 2, 1},
		{8, 1, 1},
		{0, 10, 8},
		{1, 64, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WorkerCount(tt.configured, tt.cores), "configured=%d cores=%d", tt.configured, tt.cores)
	}
	assert.GreaterOrEqual(t, DefaultWorkerCount(4), 1)
}

func TestRunAll_OneOutcomePerInput(t *testing.T) {
	e, dir := setupEngine(t, 10*time.Second, 2)
	arena := testcase.NewArena()

	invalid := arena.New(filepath.Join(dir, "broken.yaml"))
	require.NoError(t, invalid.MarkInvalid("instance file not found"))

	cases := []*testcase.TestCase{
		validCase(t, arena, dir, "ok_a.json"),
		invalid,
		validCase(t, arena, dir, "failing.json"),
		validCase(t, arena, dir, "ok_b.json"),
	}

	outcomes := collect(e.RunAll(context.Background(), cases))
	require.Len(t, outcomes, len(cases))

	byID := map[int]Outcome{}
	for _, o := range outcomes {
		byID[o.Case.ID] = o
	}
	require.Len(t, byID, len(cases))

	assert.True(t, byID[invalid.ID].Skipped)
	assert.Equal(t, testcase.StateInvalid, invalid.State())

	failing := byID[cases[2].ID]
	assert.False(t, failing.Synthetic)
	assert.Equal(t, 1, failing.ExitCode)
	assert.Equal(t, filepath.Join(e.cfg.OutputDir, "failing_2.json"), failing.ReportPath)

	issues, err := reconcile.ReadReport(failing.ReportPath)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "invalid", issues[0].Code)

	for _, tc := range []*testcase.TestCase{cases[0], cases[2], cases[3]} {
		assert.Equal(t, testcase.StateFinished, tc.State())
		assert.NotEmpty(t, tc.ReportPath)
	}
}

func TestRunAll_Timeout(t *testing.T) {
	timeout := 300 * time.Millisecond
	e, dir := setupEngine(t, timeout, 1)
	tc := validCase(t, testcase.NewArena(), dir, "slow.json")

	start := time.Now()
	outcomes := collect(e.RunAll(context.Background(), []*testcase.TestCase{tc}))
	require.Len(t, outcomes, 1)
	assert.Less(t, time.Since(start), 8*time.Second)

	o := outcomes[0]
	assert.True(t, o.Synthetic)
	assert.Equal(t, timeout, o.Duration)
	assert.Equal(t, timeout, tc.Duration)

	issues, err := reconcile.ReadReport(o.ReportPath)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "fatal", issues[0].Severity)
	assert.Equal(t, reconcile.CodeTimeout, issues[0].Code)
	assert.Contains(t, issues[0].Detail, timeout.String())
}

func TestRunAll_MissingOutput(t *testing.T) {
	e, dir := setupEngine(t, 10*time.Second, 1)
	tc := validCase(t, testcase.NewArena(), dir, "silent.json")

	outcomes := collect(e.RunAll(context.Background(), []*testcase.TestCase{tc}))
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Synthetic)

	issues, err := reconcile.ReadReport(outcomes[0].ReportPath)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, reconcile.CodeNotFound, issues[0].Code)
}

func TestRunAll_SpawnError(t *testing.T) {
	e, dir := setupEngine(t, 10*time.Second, 1)
	e.cfg.Runtime = filepath.Join(dir, "no-such-java")
	tc := validCase(t, testcase.NewArena(), dir, "ok.json")

	outcomes := collect(e.RunAll(context.Background(), []*testcase.TestCase{tc}))
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Synthetic)
	assert.Contains(t, outcomes[0].Cause, "failed to start validator")
	assert.Equal(t, testcase.StateFinished, tc.State())
}

func TestRunAll_EarlyBreakDoesNotDeadlock(t *testing.T) {
	e, dir := setupEngine(t, 10*time.Second, 1)
	arena := testcase.NewArena()
	var cases []*testcase.TestCase
	for _, name := range []string{"a.json", "b.json", "c.json", "d.json"} {
		cases = append(cases, validCase(t, arena, dir, name))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range e.RunAll(context.Background(), cases) {
			break
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("consumer stopping early blocked the engine")
	}
}

func TestRunAll_SinglePass(t *testing.T) {
	e, dir := setupEngine(t, 10*time.Second, 1)
	tc := validCase(t, testcase.NewArena(), dir, "ok.json")

	seq := e.RunAll(context.Background(), []*testcase.TestCase{tc})
	assert.Len(t, collect(seq), 1)
	assert.Empty(t, collect(seq))
}

func TestRunAll_CancelledContext(t *testing.T) {
	e, dir := setupEngine(t, 10*time.Second, 1)
	tc := validCase(t, testcase.NewArena(), dir, "ok.json")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := collect(e.RunAll(ctx, []*testcase.TestCase{tc}))
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Synthetic)
	assert.Contains(t, outcomes[0].Cause, "cancelled")
}

func TestTailBuffer(t *testing.T) {
	b := &tailBuffer{limit: 4}
	n, err := b.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ab", b.String())

	n, err = b.Write([]byte("cdef"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "cdef", b.String())

	_, _ = b.Write([]byte("g"))
	assert.Equal(t, "defg", b.String())

	_, _ = b.Write([]byte("0123456789"))
	assert.Equal(t, "6789", b.String())
}

func TestClassify(t *testing.T) {
	e, dir := setupEngine(t, time.Minute, 1)
	report := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(report, []byte(`{}`), 0o600))
	missing := filepath.Join(dir, "missing.json")

	live := context.Background()
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithTimeout(context.Background(), -time.Second)
	defer cancelExpired()

	exitErr := exec.Command("false").Run()

	tests := []struct {
		name       string
		ctx, tctx  context.Context
		err        error
		reportPath string
		wantFailed bool
		wantCode   string
	}{
		{"clean exit", live, live, nil, report, false, ""},
		{"clean exit before interrupt", cancelled, cancelled, nil, report, false, ""},
		{"clean exit before deadline", live, expired, nil, report, false, ""},
		{"non-zero exit with report", live, live, exitErr, report, false, ""},
		{"interrupted", cancelled, cancelled, exitErr, report, true, reconcile.CodeException},
		{"timed out", live, expired, exitErr, missing, true, reconcile.CodeTimeout},
		{"spawn failure", live, live, errors.New("exec: not found"), missing, true, reconcile.CodeException},
		{"no report", live, live, nil, missing, true, reconcile.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, failed := e.classify(tt.ctx, tt.tctx, tt.err, tt.reportPath)
			assert.Equal(t, tt.wantFailed, failed)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
