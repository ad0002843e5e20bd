package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() map[string]any {
	return map[string]any{
		"test_id":       "patient-01",
		"instance_path": "patient.json",
		"context": map[string]any{
			"igs": []any{"hl7.fhir.br.core"},
		},
		"expected_results": map[string]any{
			"status":      "success",
			"error":       []any{},
			"warning":     []any{},
			"fatal":       []any{},
			"information": []any{},
		},
	}
}

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New("")
	require.NoError(t, err)
	return v
}

func TestGenerate(t *testing.T) {
	raw, err := Generate()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "object", doc["type"])

	required, ok := doc["required"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"test_id", "instance_path", "expected_results"}, required)
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, newValidator(t).Validate(validDefinition()))
}

func TestValidate_MissingRequired(t *testing.T) {
	def := validDefinition()
	delete(def, "test_id")

	err := newValidator(t).Validate(def)
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindRequired, v.Kind)
	assert.Equal(t, "test_id", v.Field)
	assert.Equal(t, "required field 'test_id' is missing", v.Message)
}

func TestValidate_NestedRequired(t *testing.T) {
	def := validDefinition()
	delete(def["expected_results"].(map[string]any), "fatal")

	err := newValidator(t).Validate(def)
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindRequired, v.Kind)
	assert.Equal(t, "expected_results.fatal", v.Field)
}

func TestValidate_WrongType(t *testing.T) {
	def := validDefinition()
	def["expected_results"].(map[string]any)["error"] = "invalid"

	err := newValidator(t).Validate(def)
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindType, v.Kind)
	assert.Equal(t, "expected_results.error", v.Field)
	assert.Contains(t, v.Message, "must be of type array")
}

func TestValidate_NotInAllowedSet(t *testing.T) {
	def := validDefinition()
	def["expected_results"].(map[string]any)["status"] = "maybe"

	err := newValidator(t).Validate(def)
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, KindEnum, v.Kind)
	assert.Contains(t, v.Message, "must be one of")
	assert.Contains(t, v.Message, "success")
}

func TestValidate_AdditionalPropertiesAllowed(t *testing.T) {
	def := validDefinition()
	def["author"] = "someone"
	assert.NoError(t, newValidator(t).Validate(def))
}

func TestNew_CustomSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"object","required":["name"]}`), 0o600))

	v, err := New(path)
	require.NoError(t, err)
	assert.Error(t, v.Validate(map[string]any{}))
	assert.NoError(t, v.Validate(map[string]any{"name": "x"}))
}

func TestNew_MissingSchemaFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrSchemaUnavailable)
}

func TestCompile_Garbage(t *testing.T) {
	_, err := Compile([]byte("{not json"))
	assert.ErrorIs(t, err, ErrSchemaUnavailable)
}
