package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fut/internal/testcase"
)

func expect(status string, codes map[string][]string) testcase.Expectations {
	e := testcase.ExpectedResults{Status: status}
	e.Fatal = codes[testcase.SeverityFatal]
	e.Error = codes[testcase.SeverityError]
	e.Warning = codes[testcase.SeverityWarning]
	e.Information = codes[testcase.SeverityInformation]
	return testcase.NewExpectations(e)
}

func TestReconcile_EmptyExpectationsSuccess(t *testing.T) {
	rec := Reconcile(nil, expect("success", nil))
	assert.True(t, rec.Passed)
	assert.Equal(t, "success", rec.InferredStatus)
	assert.Empty(t, rec.Reason())

	rec = Reconcile([]Issue{{Severity: "information", Code: "informational", Detail: "note"}}, expect("success", nil))
	assert.False(t, rec.Passed)
	assert.Len(t, rec.Unexpected, 1)
}

func TestReconcile_ExactMatch(t *testing.T) {
	raw := []Issue{
		{Severity: "error", Code: "invalid", Detail: "bad"},
		{Severity: "error", Code: "structure", Detail: "worse"},
	}
	rec := Reconcile(raw, expect("error", map[string][]string{
		testcase.SeverityError: {"Invalid", "structure"},
	}))

	assert.True(t, rec.Passed, rec.Reason())
	assert.Equal(t, "error", rec.InferredStatus)
	assert.Equal(t, 2, rec.MatchedCounts[testcase.SeverityError])
	assert.Equal(t, 2, rec.RawCounts[testcase.SeverityError])
	assert.Equal(t, []Triple{
		{Severity: "error", Code: "invalid", Detail: "bad"},
		{Severity: "error", Code: "structure", Detail: "worse"},
	}, rec.Matched)
}

func TestReconcile_DuplicateCodesConsumeOnce(t *testing.T) {
	raw := []Issue{{Severity: "error", Code: "invalid"}}
	rec := Reconcile(raw, expect("error", map[string][]string{
		testcase.SeverityError: {"invalid", "invalid"},
	}))

	assert.False(t, rec.Passed)
	assert.Len(t, rec.Matched, 1)
	assert.Equal(t, []Triple{{Severity: "error", Code: "invalid"}}, rec.Missing)
}

func TestReconcile_MatchByMessageID(t *testing.T) {
	raw := []Issue{{Severity: "error", Code: "code-invalid", MessageID: "Terminology_TX_NoValid_1_CC"}}
	rec := Reconcile(raw, expect("error", map[string][]string{
		testcase.SeverityError: {"terminology_tx_novalid_1_cc"},
	}))
	assert.True(t, rec.Passed, rec.Reason())
}

func TestReconcile_BucketsAreSeparate(t *testing.T) {
	raw := []Issue{{Severity: "warning", Code: "invalid"}}
	rec := Reconcile(raw, expect("error", map[string][]string{
		testcase.SeverityError: {"invalid"},
	}))

	assert.False(t, rec.Passed)
	assert.Len(t, rec.Missing, 1)
	assert.Len(t, rec.Unexpected, 1)
	assert.Equal(t, "success", rec.InferredStatus)
}

func TestReconcile_UnexpectedFailsRegardlessOfCounts(t *testing.T) {
	raw := []Issue{{Severity: "error", Code: "invalid", Detail: "surprise"}}
	rec := Reconcile(raw, expect("success", nil))

	assert.False(t, rec.Passed)
	assert.Equal(t, "success", rec.InferredStatus)
	require.Len(t, rec.Unexpected, 1)
	assert.Equal(t, "surprise", rec.Unexpected[0].Detail)
	assert.Contains(t, rec.Reason(), "1 unexpected issue(s)")
}

func TestReconcile_StatusPrecedence(t *testing.T) {
	raw := []Issue{
		{Severity: "fatal", Code: "exception"},
		{Severity: "error", Code: "invalid"},
		{Severity: "warning", Code: "business-rule"},
	}
	codes := map[string][]string{
		testcase.SeverityFatal:   {"exception"},
		testcase.SeverityError:   {"invalid"},
		testcase.SeverityWarning: {"business-rule"},
	}

	rec := Reconcile(raw, expect("fatal", codes))
	assert.Equal(t, "fatal", rec.InferredStatus)
	assert.True(t, rec.Passed)

	rec = Reconcile(raw, expect("error", codes))
	assert.Equal(t, "fatal", rec.InferredStatus)
	assert.False(t, rec.Passed)
	assert.Contains(t, rec.Reason(), "expected status error, got fatal")
}

func TestReconcile_WarningsWithSuccessStatus(t *testing.T) {
	raw := []Issue{{Severity: "warning", Code: "business-rule"}}
	codes := map[string][]string{testcase.SeverityWarning: {"business-rule"}}

	rec := Reconcile(raw, expect("success", codes))
	assert.Equal(t, "success", rec.InferredStatus)
	assert.True(t, rec.Passed)

	rec = Reconcile(raw, expect("warning", codes))
	assert.Equal(t, "warning", rec.InferredStatus)
	assert.True(t, rec.Passed)
}

func TestReconcile_LargestBucketWins(t *testing.T) {
	raw := []Issue{
		{Severity: "error", Code: "invalid"},
		{Severity: "warning", Code: "a"},
		{Severity: "warning", Code: "b"},
	}
	rec := Reconcile(raw, expect("warning", map[string][]string{
		testcase.SeverityError:   {"invalid"},
		testcase.SeverityWarning: {"a", "b"},
	}))
	assert.Equal(t, "warning", rec.InferredStatus)
	assert.True(t, rec.Passed)
}

func TestReconcile_UnknownSeverityDropped(t *testing.T) {
	rec := Reconcile([]Issue{{Severity: "trace", Code: "x"}}, expect("success", nil))
	assert.True(t, rec.Passed)
	assert.Empty(t, rec.Unexpected)
}

func TestReconcile_Idempotent(t *testing.T) {
	raw := []Issue{
		{Severity: "error", Code: "invalid"},
		{Severity: "error", Code: "required"},
	}
	e := expect("error", map[string][]string{testcase.SeverityError: {"required"}})

	first := Reconcile(raw, e)
	second := Reconcile(raw, e)
	assert.Equal(t, first, second)
	assert.Equal(t, "invalid", raw[0].Code)
	assert.Equal(t, "required", raw[1].Code)
}

func TestInvalid(t *testing.T) {
	rec := Invalid(expect("error", map[string][]string{testcase.SeverityError: {"invalid"}}))
	assert.False(t, rec.Passed)
	assert.Empty(t, rec.Matched)
	assert.Empty(t, rec.Missing)
	assert.Equal(t, "error", rec.ExpectedStatus)
}

const sampleOutcome = `{
  "resourceType": "OperationOutcome",
  "issue": [
    {
      "extension": [
        {"url": "http://hl7.org/fhir/StructureDefinition/operationoutcome-issue-line", "valueInteger": 3},
        {"url": "http://hl7.org/fhir/StructureDefinition/operationoutcome-message-id", "valueString": "Type_Specific_Checks_DT_String_WS"}
      ],
      "severity": "warning",
      "code": "invalid",
      "details": {"text": "value should not start or finish with whitespace"},
      "expression": ["Patient.name[0].family"]
    },
    {
      "severity": "information",
      "code": "informational",
      "details": {"text": "All OK"}
    }
  ]
}`

func TestParseReport_OperationOutcome(t *testing.T) {
	issues, err := ParseReport([]byte(sampleOutcome))
	require.NoError(t, err)
	require.Len(t, issues, 1)

	assert.Equal(t, Issue{
		Severity:  "warning",
		Code:      "invalid",
		MessageID: "Type_Specific_Checks_DT_String_WS",
		Detail:    "value should not start or finish with whitespace",
		Location:  "Patient.name[0].family",
	}, issues[0])
}

func TestParseReport_Bundle(t *testing.T) {
	bundle := `{"resourceType":"Bundle","entry":[{"resource":` + sampleOutcome + `},{"resource":{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"structure","diagnostics":"broken"}]}}]}`

	issues, err := ParseReport([]byte(bundle))
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, "broken", issues[1].Detail)
}

func TestParseReport_Errors(t *testing.T) {
	_, err := ParseReport([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseReport([]byte(`{"resourceType":"Patient"}`))
	assert.Error(t, err)
}

func TestWriteFatalReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteFatalReport(path, CodeTimeout, "validator timed out after 1s"))

	issues, err := ReadReport(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "fatal", issues[0].Severity)
	assert.Equal(t, CodeTimeout, issues[0].Code)
	assert.Equal(t, "validator timed out after 1s", issues[0].Detail)

	_, err = ReadReport(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
