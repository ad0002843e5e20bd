package reconcile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"fut/internal/testcase"
	"fut/pkg/logging"
)

const messageIDExtension = "http://hl7.org/fhir/StructureDefinition/operationoutcome-message-id"

// allOK is the information issue the validator emits when it found nothing.
const allOK = "All OK"

// Issue is one entry reported by the validator.
type Issue struct {
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	MessageID string `json:"messageId,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Location  string `json:"location,omitempty"`
}

type resource struct {
	ResourceType string        `json:"resourceType"`
	Issue        []outcomeItem `json:"issue,omitempty"`
	Entry        []bundleEntry `json:"entry,omitempty"`
}

type bundleEntry struct {
	Resource json.RawMessage `json:"resource"`
}

type outcomeItem struct {
	Extension   []extension      `json:"extension,omitempty"`
	Severity    string           `json:"severity"`
	Code        string           `json:"code"`
	Details     *codeableConcept `json:"details,omitempty"`
	Diagnostics string           `json:"diagnostics,omitempty"`
	Expression  []string         `json:"expression,omitempty"`
	Location    []string         `json:"location,omitempty"`
}

type extension struct {
	URL         string `json:"url"`
	ValueString string `json:"valueString,omitempty"`
}

type codeableConcept struct {
	Text string `json:"text,omitempty"`
}

// ReadReport parses the validator report at path.
func ReadReport(path string) ([]Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return ParseReport(data)
}

// ParseReport flattens an OperationOutcome or a Bundle of them into issues.
// The validator's "All OK" marker is not an issue and is skipped.
func ParseReport(data []byte) ([]Issue, error) {
	var r resource
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	switch r.ResourceType {
	case "OperationOutcome":
		return convert(r.Issue), nil
	case "Bundle":
		var issues []Issue
		for i, e := range r.Entry {
			if len(e.Resource) == 0 {
				continue
			}
			nested, err := ParseReport(e.Resource)
			if err != nil {
				return nil, fmt.Errorf("bundle entry %d: %w", i, err)
			}
			issues = append(issues, nested...)
		}
		return issues, nil
	default:
		return nil, fmt.Errorf("unexpected report resource type %q", r.ResourceType)
	}
}

func convert(items []outcomeItem) []Issue {
	issues := make([]Issue, 0, len(items))
	for _, it := range items {
		issue := Issue{
			Severity:  strings.ToLower(strings.TrimSpace(it.Severity)),
			Code:      strings.TrimSpace(it.Code),
			MessageID: messageID(it.Extension),
			Detail:    it.Diagnostics,
			Location:  firstOf(it.Expression, it.Location),
		}
		if it.Details != nil && it.Details.Text != "" {
			issue.Detail = it.Details.Text
		}
		if issue.Severity == testcase.SeverityInformation && issue.Detail == allOK {
			continue
		}
		issues = append(issues, issue)
	}
	return issues
}

func messageID(exts []extension) string {
	for _, e := range exts {
		if e.URL == messageIDExtension {
			return e.ValueString
		}
	}
	return ""
}

func firstOf(lists ...[]string) string {
	for _, l := range lists {
		if len(l) > 0 {
			return l[0]
		}
	}
	return ""
}

// Issue codes used in reports the runner writes itself.
const (
	CodeTimeout   = "timeout"
	CodeException = "exception"
	CodeNotFound  = "not-found"
)

// WriteFatalReport writes an OperationOutcome with a single fatal issue to path.
// The engine uses it whenever the validator could not produce a report.
func WriteFatalReport(path, code, text string) error {
	r := resource{
		ResourceType: "OperationOutcome",
		Issue: []outcomeItem{{
			Severity: testcase.SeverityFatal,
			Code:     code,
			Details:  &codeableConcept{Text: text},
		}},
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write synthetic report: %w", err)
	}
	logging.Debug("Reconcile", "Wrote synthetic %s report to %s", code, path)
	return nil
}
