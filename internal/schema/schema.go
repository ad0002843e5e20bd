// Package schema generates and enforces the JSON schema every test definition must satisfy.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	invschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"fut/internal/testcase"
	"fut/pkg/logging"
)

const resourceURL = "https://fut.local/schemas/definition.schema.json"

// ErrSchemaUnavailable means the configured schema could not be read or compiled.
// Runs cannot proceed without it.
var ErrSchemaUnavailable = errors.New("test definition schema unavailable")

// Generate reflects the default schema from testcase.Definition.
func Generate() ([]byte, error) {
	r := &invschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		Anonymous:                  true,
		ExpandedStruct:             true,
	}
	s := r.Reflect(&testcase.Definition{})
	s.Title = "fut test definition"
	s.Description = "A single conformance test run against the FHIR validator"
	return json.MarshalIndent(s, "", "  ")
}

// Load returns the schema document at path, or the generated default when path is empty.
func Load(path string) ([]byte, error) {
	if path == "" {
		return Generate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	logging.Debug("Schema", "Loaded test definition schema from %s", path)
	return data, nil
}

// Validator checks decoded definitions against a compiled schema.
// It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// New loads and compiles the schema at path (or the default).
func New(path string) (*Validator, error) {
	raw, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Compile(raw)
}

// Compile builds a Validator from a raw schema document.
func Compile(raw []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrSchemaUnavailable, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %w", ErrSchemaUnavailable, err)
	}
	return &Validator{schema: sch}, nil
}

// Validate checks a decoded JSON value. It returns nil or a *Violation.
func (v *Validator) Validate(instance any) error {
	if err := v.schema.Validate(instance); err != nil {
		return describe(err)
	}
	return nil
}
