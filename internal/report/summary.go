package report

import (
	"time"

	"github.com/google/uuid"

	"fut/internal/execution"
	"fut/internal/reconcile"
	"fut/internal/testcase"
)

// Entry is the final state of one test case in a run.
type Entry struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	TestID      string           `json:"testId,omitempty"`
	Description string           `json:"description,omitempty"`
	State       string           `json:"state"`
	Valid       bool             `json:"valid"`
	Passed      bool             `json:"passed"`
	Reason      string           `json:"reason,omitempty"`
	Duration    time.Duration    `json:"duration"`
	ReportPath  string           `json:"reportPath,omitempty"`
	Args        string           `json:"args,omitempty"`
	Synthetic   bool             `json:"synthetic,omitempty"`
	Record      reconcile.Record `json:"record"`
}

// CaseEntry describes a case that has not been reconciled, as after preparation only.
func CaseEntry(tc *testcase.TestCase) Entry {
	return Entry{
		ID:          tc.ID,
		Name:        tc.Name(),
		TestID:      tc.Definition.TestID,
		Description: tc.Definition.Description,
		State:       tc.State().String(),
		Valid:       tc.Executable(),
		Reason:      tc.Reason(),
		Duration:    tc.Duration,
		ReportPath:  tc.ReportPath,
		Args:        tc.ArgString(),
	}
}

// NewEntry builds the entry of a case from its execution outcome and reconciliation.
func NewEntry(o execution.Outcome, rec reconcile.Record) Entry {
	tc := o.Case
	e := CaseEntry(tc)
	e.Passed = e.Valid && rec.Passed
	e.Synthetic = o.Synthetic
	e.Record = rec
	e.Reason = ""
	switch {
	case !e.Valid:
		e.Reason = tc.Reason()
	case !e.Passed:
		e.Reason = rec.Reason()
		if o.Synthetic && o.Cause != "" {
			e.Reason = o.Cause + "; " + e.Reason
		}
	}
	return e
}

// Summary aggregates one run.
type Summary struct {
	RunID          string             `json:"runId"`
	Timestamp      time.Time          `json:"timestamp"`
	CheckerVersion string             `json:"checkerVersion,omitempty"`
	Total          int                `json:"total"`
	Valid          int                `json:"valid"`
	Invalid        int                `json:"invalid"`
	Passed         int                `json:"passed"`
	Failed         int                `json:"failed"`
	TotalTime      time.Duration      `json:"totalTime"`
	MeanTime       time.Duration      `json:"meanTime"`
	RawTotals      map[string]int     `json:"rawTotals"`
	Matched        map[string]int     `json:"matched"`
	Accuracy       map[string]float64 `json:"accuracy"`
	Recall         map[string]float64 `json:"recall"`
}

// Validation counts a batch that was prepared but not run.
type Validation struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Tally counts the valid and invalid entries of a prepare-only batch.
func Tally(entries []Entry) Validation {
	v := Validation{Total: len(entries)}
	for _, e := range entries {
		if e.Valid {
			v.Valid++
		} else {
			v.Invalid++
		}
	}
	return v
}

// PassRate is passed over total, zero for an empty run.
func (s Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total)
}

// Aggregate computes the summary of a run from its entries.
// Timing and issue statistics only consider tests that actually ran.
func Aggregate(entries []Entry, totalElapsed time.Duration, checkerVersion string) Summary {
	s := Summary{
		RunID:          uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		CheckerVersion: checkerVersion,
		Total:          len(entries),
		TotalTime:      totalElapsed,
		RawTotals:      make(map[string]int, len(testcase.Severities)),
		Matched:        make(map[string]int, len(testcase.Severities)),
		Accuracy:       make(map[string]float64, len(testcase.Severities)),
		Recall:         make(map[string]float64, len(testcase.Severities)),
	}

	var validTime time.Duration
	for _, e := range entries {
		if e.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		if !e.Valid {
			s.Invalid++
			continue
		}
		s.Valid++
		validTime += e.Duration
		for _, sev := range testcase.Severities {
			s.RawTotals[sev] += e.Record.RawCounts[sev]
			s.Matched[sev] += e.Record.MatchedCounts[sev]
		}
	}

	if s.Valid > 0 {
		s.MeanTime = validTime / time.Duration(s.Valid)
	}

	allMatched := 0
	for _, sev := range testcase.Severities {
		allMatched += s.Matched[sev]
	}
	for _, sev := range testcase.Severities {
		s.Accuracy[sev] = float64(s.Matched[sev]) / float64(max(1, allMatched))
		s.Recall[sev] = float64(s.Matched[sev]) / float64(max(1, s.RawTotals[sev]))
	}
	return s
}
