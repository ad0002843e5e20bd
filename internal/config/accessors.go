package config

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

func toMap(c Config) (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Keys lists every settable dotted key.
func Keys() []string {
	m, _ := toMap(GetDefaultConfig())
	var keys []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if nested, ok := v.(map[string]any); ok {
				walk(prefix+k+".", nested)
				continue
			}
			keys = append(keys, prefix+k)
		}
	}
	walk("", m)
	sort.Strings(keys)
	return keys
}

// Get returns the value at a dotted key such as "validator.auto_update".
func Get(c Config, key string) (any, error) {
	m, err := toMap(c)
	if err != nil {
		return nil, err
	}
	var cur any = m
	for _, part := range strings.Split(key, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unknown setting %q", key)
		}
		if cur, ok = node[part]; !ok {
			return nil, fmt.Errorf("unknown setting %q", key)
		}
	}
	if _, isMap := cur.(map[string]any); isMap {
		return nil, fmt.Errorf("%q is a section, not a setting", key)
	}
	return cur, nil
}

// Set returns a copy of c with the dotted key set to value.
// The value is parsed as a YAML scalar, so "8", "true" and "90s" get their natural types.
func Set(c Config, key, value string) (Config, error) {
	if _, err := Get(c, key); err != nil {
		return c, err
	}
	m, err := toMap(c)
	if err != nil {
		return c, err
	}

	var parsed any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return c, fmt.Errorf("invalid value for %s: %w", key, err)
	}

	parts := strings.Split(key, ".")
	node := m
	for _, part := range parts[:len(parts)-1] {
		node = node[part].(map[string]any)
	}
	node[parts[len(parts)-1]] = parsed

	data, err := yaml.Marshal(m)
	if err != nil {
		return c, err
	}
	var updated Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&updated); err != nil {
		return c, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := Validate(updated); err != nil {
		return c, err
	}
	return updated, nil
}
