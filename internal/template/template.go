package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"fut/internal/testcase"
	"fut/pkg/logging"
)

// DefaultPath is where a template is written when no path is given.
const DefaultPath = "template.yaml"

// ErrExists is returned when the target file exists and overwriting was not requested.
var ErrExists = errors.New("file already exists")

// Data holds the values placed in a definition skeleton. Empty fields are
// rendered as placeholders.
type Data struct {
	TestID       string
	Description  string
	IGs          []string
	Profiles     []string
	Resources    []string
	InstancePath string
	Status       string
	Error        []string
	Warning      []string
	Fatal        []string
	Information  []string
}

const skeleton = `test_id: {{ .TestID | quote }} # (required) unique identifier of the test
description: {{ .Description | quote }} # (recommended)
context: # validation context handed to the validator
  igs: {{ .IGs | toJson }} # implementation guide ids or urls, e.g. hl7.fhir.r4.core#4.0.1
  profiles: {{ .Profiles | toJson }} # StructureDefinition canonical urls
  resources: {{ .Resources | toJson }} # extra conformance resources (ValueSet, CodeSystem, ...)
instance_path: {{ .InstancePath | quote }} # (required) instance to validate, relative to this file
expected_results: # (required)
  status: {{ .Status | default "success" }} # one of: {{ join ", " .Statuses }}
{{- range .Buckets }}
  {{ .Name }}: {{ .Codes | toJson }}
{{- end }}
`

var tmpl = template.Must(template.New("definition").Funcs(sprig.TxtFuncMap()).Parse(skeleton))

type bucket struct {
	Name  string
	Codes []string
}

// Render returns the YAML skeleton for d.
func Render(d Data) ([]byte, error) {
	view := struct {
		Data
		Statuses []string
		Buckets  []bucket
	}{
		Data:     normalize(d),
		Statuses: append([]string{testcase.StatusSuccess}, testcase.Severities...),
	}
	codes := map[string][]string{
		testcase.SeverityFatal:       view.Fatal,
		testcase.SeverityError:       view.Error,
		testcase.SeverityWarning:     view.Warning,
		testcase.SeverityInformation: view.Information,
	}
	for _, sev := range testcase.Severities {
		view.Buckets = append(view.Buckets, bucket{Name: sev, Codes: codes[sev]})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render template: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders d into path. An existing file is only replaced when overwrite is set.
func Write(path string, d Data, overwrite bool) error {
	if path == "" {
		path = DefaultPath
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}

	out, err := Render(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	logging.Info("Template", "Test definition template written to %s", path)
	return nil
}

// normalize trims values and drops empty list items so every list renders as a JSON array.
func normalize(d Data) Data {
	d.TestID = strings.TrimSpace(d.TestID)
	d.Description = strings.TrimSpace(d.Description)
	d.InstancePath = strings.TrimSpace(d.InstancePath)
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	for _, list := range []*[]string{&d.IGs, &d.Profiles, &d.Resources, &d.Error, &d.Warning, &d.Fatal, &d.Information} {
		*list = compact(*list)
	}
	return d
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
