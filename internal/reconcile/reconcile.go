package reconcile

import (
	"fmt"
	"strings"

	"fut/internal/testcase"
	"fut/pkg/logging"
)

// Triple identifies an issue by severity, code and detail.
type Triple struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Detail   string `json:"detail,omitempty"`
}

// Record is the outcome of reconciling one test.
type Record struct {
	Matched        []Triple       `json:"matched"`
	Missing        []Triple       `json:"missing"`
	Unexpected     []Triple       `json:"unexpected"`
	ExpectedStatus string         `json:"expectedStatus"`
	InferredStatus string         `json:"inferredStatus"`
	MatchedCounts  map[string]int `json:"matchedCounts"`
	RawCounts      map[string]int `json:"rawCounts"`
	Passed         bool           `json:"passed"`
}

// Reason summarizes why a record failed, or returns "" when it passed.
func (r Record) Reason() string {
	if r.Passed {
		return ""
	}
	var parts []string
	if r.InferredStatus != r.ExpectedStatus {
		parts = append(parts, fmt.Sprintf("expected status %s, got %s", r.ExpectedStatus, r.InferredStatus))
	}
	if n := len(r.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d expected issue(s) not reported", n))
	}
	if n := len(r.Unexpected); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unexpected issue(s)", n))
	}
	return strings.Join(parts, "; ")
}

// Reconcile matches raw issues against expectations and decides the verdict.
func Reconcile(raw []Issue, expected testcase.Expectations) Record {
	rec := Record{
		Matched:        []Triple{},
		Missing:        []Triple{},
		Unexpected:     []Triple{},
		ExpectedStatus: expected.Status,
		MatchedCounts:  make(map[string]int, len(testcase.Severities)),
		RawCounts:      make(map[string]int, len(testcase.Severities)),
	}

	buckets := partition(raw)
	for _, sev := range testcase.Severities {
		remaining := buckets[sev]
		rec.RawCounts[sev] = len(remaining)

		for _, code := range expected.Codes[sev] {
			idx := indexOf(remaining, code)
			if idx < 0 {
				rec.Missing = append(rec.Missing, Triple{Severity: sev, Code: code})
				continue
			}
			hit := remaining[idx]
			remaining = append(remaining[:idx:idx], remaining[idx+1:]...)
			rec.Matched = append(rec.Matched, Triple{Severity: sev, Code: code, Detail: hit.Detail})
			rec.MatchedCounts[sev]++
		}

		for _, left := range remaining {
			rec.Unexpected = append(rec.Unexpected, toTriple(left))
		}
	}

	rec.InferredStatus = inferStatus(rec.MatchedCounts, expected.Status)
	rec.Passed = rec.InferredStatus == rec.ExpectedStatus && len(rec.Missing) == 0 && len(rec.Unexpected) == 0
	return rec
}

// Invalid builds the failing record of a test that never ran. Nothing is matched or counted.
func Invalid(expected testcase.Expectations) Record {
	return Record{
		Matched:        []Triple{},
		Missing:        []Triple{},
		Unexpected:     []Triple{},
		ExpectedStatus: expected.Status,
		MatchedCounts:  map[string]int{},
		RawCounts:      map[string]int{},
	}
}

func partition(raw []Issue) map[string][]Issue {
	buckets := make(map[string][]Issue, len(testcase.Severities))
	for _, issue := range raw {
		sev := strings.ToLower(issue.Severity)
		switch sev {
		case testcase.SeverityFatal, testcase.SeverityError, testcase.SeverityWarning, testcase.SeverityInformation:
			buckets[sev] = append(buckets[sev], issue)
		default:
			logging.Debug("Reconcile", "Dropping issue with unknown severity %q", issue.Severity)
		}
	}
	return buckets
}

// indexOf finds the first issue whose code or message id equals the normalized code.
func indexOf(issues []Issue, code string) int {
	for i, issue := range issues {
		if testcase.NormalizeCode(issue.Code) == code || testcase.NormalizeCode(issue.MessageID) == code {
			return i
		}
	}
	return -1
}

func toTriple(issue Issue) Triple {
	detail := issue.Detail
	if issue.MessageID != "" {
		detail = fmt.Sprintf("[%s] %s", issue.MessageID, detail)
	}
	return Triple{Severity: issue.Severity, Code: issue.Code, Detail: detail}
}

// inferStatus picks the status from the buckets with the most matches.
// Without any match the status is success.
func inferStatus(matched map[string]int, expectedStatus string) string {
	best := 0
	for _, sev := range testcase.Severities {
		best = max(best, matched[sev])
	}
	if best == 0 {
		return testcase.StatusSuccess
	}

	var candidates []string
	severe := false
	for _, sev := range testcase.Severities {
		if matched[sev] == best {
			candidates = append(candidates, sev)
			if sev == testcase.SeverityFatal || sev == testcase.SeverityError {
				severe = true
			}
		}
	}
	if !severe && expectedStatus == testcase.StatusSuccess {
		return testcase.StatusSuccess
	}
	// Severities is already in precedence order.
	return candidates[0]
}
