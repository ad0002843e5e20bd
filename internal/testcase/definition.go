package testcase

// Severity buckets used by the checker and by expectations.
const (
	SeverityFatal       = "fatal"
	SeverityError       = "error"
	SeverityWarning     = "warning"
	SeverityInformation = "information"
)

// StatusSuccess is the expected status of a resource that raises nothing worse than information.
const StatusSuccess = "success"

// Severities lists the buckets in status-inference precedence order.
var Severities = []string{SeverityFatal, SeverityError, SeverityWarning, SeverityInformation}

// Definition is a single test as authored in YAML.
type Definition struct {
	TestID       string            `json:"test_id" jsonschema:"required,minLength=1,title=Test identifier"`
	Description  string            `json:"description,omitempty" jsonschema:"title=Description"`
	Context      ValidationContext `json:"context,omitempty" jsonschema:"title=Validation context"`
	InstancePath string            `json:"instance_path" jsonschema:"required,title=Instance path"`
	Expected     ExpectedResults   `json:"expected_results" jsonschema:"required,title=Expected results"`
}

// ValidationContext lists the implementation guides, profiles and extra resources passed to the checker.
type ValidationContext struct {
	IGs       []string `json:"igs,omitempty" jsonschema:"title=Implementation guides"`
	Profiles  []string `json:"profiles,omitempty" jsonschema:"title=Profiles"`
	Resources []string `json:"resources,omitempty" jsonschema:"title=Resources"`
}

// ExpectedResults are the issue codes and overall status a test expects from the checker.
type ExpectedResults struct {
	Status      string   `json:"status" jsonschema:"required,enum=success,enum=error,enum=warning,enum=information,enum=fatal"`
	Error       []string `json:"error" jsonschema:"required"`
	Warning     []string `json:"warning" jsonschema:"required"`
	Fatal       []string `json:"fatal" jsonschema:"required"`
	Information []string `json:"information" jsonschema:"required"`
	Invariants  any      `json:"invariants,omitempty"`
}

// Suite groups several definitions in one file.
// A document is a suite when it carries the suite_name key.
type Suite struct {
	Name    string            `json:"suite_name"`
	Context ValidationContext `json:"context,omitempty"`
	Tests   []map[string]any  `json:"tests"`
}

// SuiteMarker is the key that identifies a suite document.
const SuiteMarker = "suite_name"
