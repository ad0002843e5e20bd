package formatting

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fut/internal/checker"
	"fut/internal/reconcile"
	"fut/internal/report"
)

func sampleRun() ([]report.Entry, report.Summary) {
	entries := []report.Entry{
		{ID: 2, Name: "b.yaml", Valid: true, Passed: true, Duration: 1500 * time.Millisecond,
			Record: reconcile.Record{ExpectedStatus: "success", InferredStatus: "success"}},
		{ID: 1, Name: "a.yaml", Valid: false, Reason: "instance file not found"},
		{ID: 3, Name: "c.yaml", Valid: true, Passed: false, Reason: "1 unexpected issue(s)",
			Record: reconcile.Record{
				ExpectedStatus: "success", InferredStatus: "success",
				Unexpected: []reconcile.Triple{{Severity: "error", Code: "invalid", Detail: "bad value"}},
			}},
	}
	return entries, report.Aggregate(entries, 3*time.Second, "6.3.11")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestTableFormatter_FormatRun(t *testing.T) {
	var buf bytes.Buffer
	entries, s := sampleRun()

	require.NoError(t, New(Options{Format: FormatTable, Writer: &buf, Verbose: true}).FormatRun(entries, s))
	out := buf.String()

	assert.Contains(t, out, "a.yaml")
	assert.Contains(t, out, "INVALID")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "unexpected")
	assert.Contains(t, out, "invalid: bad value")
	assert.Contains(t, out, "6.3.11")
	assert.Contains(t, out, "information")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("a.yaml")), bytes.Index(buf.Bytes(), []byte("b.yaml")))
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Writer: &buf})
	require.NoError(t, f.FormatRun(nil, report.Summary{}))
	require.NoError(t, f.FormatHistory(report.Header(), nil))
	assert.Contains(t, buf.String(), "No test definitions found")
	assert.Contains(t, buf.String(), "No runs recorded yet")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	entries, s := sampleRun()
	require.NoError(t, New(Options{Format: FormatJSON, Writer: &buf}).FormatRun(entries, s))

	var doc report.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Len(t, doc.Tests, 3)
	assert.Equal(t, 1, doc.Summary.Passed)

	buf.Reset()
	require.NoError(t, New(Options{Format: FormatJSON, Writer: &buf}).FormatHistory([]string{"run_id", "total"}, [][]string{{"r1", "3"}}))
	assert.JSONEq(t, `[{"run_id":"r1","total":"3"}]`, buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	st := checker.Status{Path: "/x.jar", Installed: true, InstalledVersion: "6.3.11"}
	require.NoError(t, New(Options{Format: FormatYAML, Writer: &buf}).FormatStatus(st))
	assert.Contains(t, buf.String(), "installedVersion: 6.3.11")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond+200*time.Microsecond))
	assert.Equal(t, "25.0%", FormatPercent(0.25))
	assert.Equal(t, "abc...", truncate("abcdefgh", 6))
	assert.Equal(t, "abc", truncate("abc", 6))
	assert.Equal(t, "line one line two", truncate("line one\n  line two", 40))
	assert.Equal(t, "héé...", truncate("héélo wörld", 6))
	assert.Equal(t, "a...", truncate("abcdef", 1))
	assert.Contains(t, PrettyJSON(map[string]int{"a": 1}), "\"a\": 1")
}

func TestFormatValidation(t *testing.T) {
	entries := []report.Entry{
		{ID: 2, Name: "b.yaml", Valid: true},
		{ID: 1, Name: "a.yaml", Valid: false, Reason: "instance file not found"},
	}
	v := report.Tally(entries)

	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatTable, Writer: &buf}).FormatValidation(entries, v))
	out := buf.String()
	assert.Contains(t, out, "VALID")
	assert.Contains(t, out, "instance file not found")
	assert.Contains(t, out, "2 definition(s)")
	assert.NotContains(t, out, "Pass rate")
	assert.NotContains(t, out, "Run ")

	buf.Reset()
	require.NoError(t, New(Options{Format: FormatJSON, Writer: &buf}).FormatValidation(entries, v))
	var parsed struct {
		Tests   []report.Entry `json:"tests"`
		Summary map[string]any `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Len(t, parsed.Tests, 2)
	assert.Equal(t, map[string]any{"total": 2.0, "valid": 1.0, "invalid": 1.0}, parsed.Summary)
}
