package formatting

import (
	"gopkg.in/yaml.v3"

	"fut/internal/checker"
	"fut/internal/report"
)

// YAMLFormatter writes YAML documents.
type YAMLFormatter struct {
	options Options
}

func (f *YAMLFormatter) write(v interface{}) error {
	enc := yaml.NewEncoder(f.options.Writer)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

// FormatRun goes through JSON first so the YAML keys match the JSON report.
func (f *YAMLFormatter) FormatRun(entries []report.Entry, s report.Summary) error {
	return f.write(viaJSON(report.Document{Tests: entries, Summary: s}))
}

func (f *YAMLFormatter) FormatValidation(entries []report.Entry, v report.Validation) error {
	return f.write(viaJSON(report.ValidationDocument{Tests: entries, Summary: v}))
}

func (f *YAMLFormatter) FormatHistory(header []string, rows [][]string) error {
	return f.write(historyRecords(header, rows))
}

func (f *YAMLFormatter) FormatStatus(st checker.Status) error {
	return f.write(viaJSON(st))
}

func (f *YAMLFormatter) FormatData(data interface{}) error {
	return f.write(data)
}
