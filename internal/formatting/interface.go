// Package formatting renders run results, history and validator status for the terminal.
//
// Table output uses go-pretty; JSON and YAML formatters emit the same data
// in machine readable form for scripting.
package formatting

import (
	"fmt"
	"io"
	"os"

	"fut/internal/checker"
	"fut/internal/report"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatTable, FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, json or yaml)", s)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format  OutputFormat
	Writer  io.Writer
	Verbose bool // Show matched and missing issues for every test
}

// Formatter renders fut data.
type Formatter interface {
	FormatRun(entries []report.Entry, summary report.Summary) error
	FormatValidation(entries []report.Entry, v report.Validation) error
	FormatHistory(header []string, rows [][]string) error
	FormatStatus(status checker.Status) error
	FormatData(data interface{}) error
}

// New creates the formatter for options.Format. A nil Writer means stdout.
func New(options Options) Formatter {
	if options.Writer == nil {
		options.Writer = os.Stdout
	}
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{options: options}
	case FormatYAML:
		return &YAMLFormatter{options: options}
	default:
		return &TableFormatter{options: options}
	}
}
