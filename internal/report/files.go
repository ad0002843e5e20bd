package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"fut/internal/testcase"
)

// Document is the JSON run report.
type Document struct {
	Tests   []Entry `json:"tests"`
	Summary Summary `json:"summary"`
}

// ValidationDocument is the machine readable output of a prepare-only batch.
type ValidationDocument struct {
	Tests   []Entry    `json:"tests"`
	Summary Validation `json:"summary"`
}

// WriteJSON writes the per-test entries and the summary to path.
func WriteJSON(path string, entries []Entry, s Summary) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(Document{Tests: entries, Summary: s}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// WriteMetrics writes the summary as a Prometheus textfile.
func WriteMetrics(path string, s Summary) error {
	reg := prometheus.NewRegistry()

	tests := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fut_tests",
		Help: "Test cases in the last run by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fut_run_duration_seconds",
		Help: "Wall clock duration of the last run.",
	})
	mean := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fut_test_mean_duration_seconds",
		Help: "Mean validator time over tests that ran.",
	})
	issues := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fut_issues",
		Help: "Issues reported by the validator in the last run.",
	}, []string{"severity", "kind"})
	accuracy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fut_accuracy_ratio",
		Help: "Share of matched issues per severity.",
	}, []string{"severity"})
	reg.MustRegister(tests, duration, mean, issues, accuracy)

	tests.WithLabelValues("passed").Set(float64(s.Passed))
	tests.WithLabelValues("failed").Set(float64(s.Failed))
	tests.WithLabelValues("invalid").Set(float64(s.Invalid))
	duration.Set(s.TotalTime.Seconds())
	mean.Set(s.MeanTime.Seconds())
	for _, sev := range testcase.Severities {
		issues.WithLabelValues(sev, "reported").Set(float64(s.RawTotals[sev]))
		issues.WithLabelValues(sev, "matched").Set(float64(s.Matched[sev]))
		accuracy.WithLabelValues(sev).Set(s.Accuracy[sev])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
