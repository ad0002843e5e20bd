package prepare

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"
)

// Document is a decoded definition file, or the reason it could not be decoded.
type Document struct {
	Source string
	Value  any
	Err    error
}

var errEmptyDefinition = errors.New("definition file is empty")

// LoadFile reads and decodes one definition file.
func LoadFile(path string) Document {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{Source: path, Err: fmt.Errorf("failed to read definition: %w", err)}
	}
	return Decode(path, data)
}

// LoadAll decodes every file in order.
func LoadAll(paths []string) []Document {
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		docs = append(docs, LoadFile(p))
	}
	return docs
}

// Decode converts YAML to the JSON value model the schema validator works on.
// Null list items become empty strings so "- " entries stay harmless.
func Decode(source string, data []byte) Document {
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return Document{Source: source, Err: fmt.Errorf("failed to parse YAML: %w", err)}
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return Document{Source: source, Err: fmt.Errorf("failed to decode definition: %w", err)}
	}
	if v == nil {
		return Document{Source: source, Err: errEmptyDefinition}
	}
	return Document{Source: source, Value: cleanNulls(v)}
}

func cleanNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = cleanNulls(item)
		}
	case []any:
		for i, item := range t {
			if item == nil {
				t[i] = ""
				continue
			}
			t[i] = cleanNulls(item)
		}
	}
	return v
}
