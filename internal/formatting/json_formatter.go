package formatting

import (
	"encoding/json"

	"fut/internal/checker"
	"fut/internal/report"
)

// JSONFormatter writes indented JSON.
type JSONFormatter struct {
	options Options
}

func (f *JSONFormatter) write(v interface{}) error {
	enc := json.NewEncoder(f.options.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *JSONFormatter) FormatRun(entries []report.Entry, s report.Summary) error {
	if entries == nil {
		entries = []report.Entry{}
	}
	return f.write(report.Document{Tests: entries, Summary: s})
}

func (f *JSONFormatter) FormatValidation(entries []report.Entry, v report.Validation) error {
	if entries == nil {
		entries = []report.Entry{}
	}
	return f.write(report.ValidationDocument{Tests: entries, Summary: v})
}

func (f *JSONFormatter) FormatHistory(header []string, rows [][]string) error {
	return f.write(historyRecords(header, rows))
}

func (f *JSONFormatter) FormatStatus(st checker.Status) error {
	return f.write(st)
}

func (f *JSONFormatter) FormatData(data interface{}) error {
	return f.write(data)
}
