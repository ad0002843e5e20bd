package testcase

import "strings"

// Expectations holds the normalized expected codes per severity bucket, in declaration order.
type Expectations struct {
	Status string
	Codes  map[string][]string
}

// NormalizeCode canonicalizes an issue code for comparison.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// NewExpectations normalizes the expected results of a definition.
// Empty entries are dropped.
func NewExpectations(e ExpectedResults) Expectations {
	status := NormalizeCode(e.Status)
	if status == "" {
		status = StatusSuccess
	}
	return Expectations{
		Status: status,
		Codes: map[string][]string{
			SeverityFatal:       normalizeAll(e.Fatal),
			SeverityError:       normalizeAll(e.Error),
			SeverityWarning:     normalizeAll(e.Warning),
			SeverityInformation: normalizeAll(e.Information),
		},
	}
}

// Count returns the number of expected codes across all buckets.
func (e Expectations) Count() int {
	n := 0
	for _, codes := range e.Codes {
		n += len(codes)
	}
	return n
}

func normalizeAll(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if n := NormalizeCode(c); n != "" {
			out = append(out, n)
		}
	}
	return out
}
