package config

import (
	"fmt"
	"strings"
)

// Kinds of ConfigurationError.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ConfigurationError reports a config.yaml that cannot be used. The CLI maps
// it to the configuration exit code.
type ConfigurationError struct {
	FilePath    string   `json:"filePath"`
	ErrorType   string   `json:"errorType"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`

	Err error `json:"-"`
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s error in %s: %s", ce.ErrorType, ce.FilePath, ce.Message)
}

func (ce *ConfigurationError) Unwrap() error { return ce.Err }

// DetailedError renders the error with its suggestions, one per line.
func (ce *ConfigurationError) DetailedError() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n  file: %s\n", ce.Message, ce.FilePath)
	if len(ce.Suggestions) > 0 {
		b.WriteString("  Suggestions:\n")
		for _, s := range ce.Suggestions {
			fmt.Fprintf(&b, "    - %s\n", s)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func newConfigurationError(path, kind string, err error, suggestions ...string) *ConfigurationError {
	return &ConfigurationError{
		FilePath:    path,
		ErrorType:   kind,
		Message:     err.Error(),
		Suggestions: suggestions,
		Err:         err,
	}
}
