package formatting

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"fut/internal/checker"
	"fut/internal/report"
	"fut/internal/testcase"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.Writer)
	t.SetStyle(table.StyleRounded)
	return t
}

// FormatRun prints one row per test followed by the run summary.
func (f *TableFormatter) FormatRun(entries []report.Entry, s report.Summary) error {
	if len(entries) == 0 {
		fmt.Fprint(f.options.Writer, f.formatEmptyMessage("📋", "No test definitions found"))
		return nil
	}

	sorted := make([]report.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	t := f.createTable()
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("TEST"),
		text.FgHiCyan.Sprint("RESULT"),
		text.FgHiCyan.Sprint("STATUS"),
		text.FgHiCyan.Sprint("TIME"),
		text.FgHiCyan.Sprint("DETAILS"),
	})
	for _, e := range sorted {
		status := "-"
		if e.Valid {
			status = fmt.Sprintf("%s / %s", e.Record.ExpectedStatus, e.Record.InferredStatus)
		}
		t.AppendRow(table.Row{
			e.Name,
			resultLabel(e),
			status,
			FormatDuration(e.Duration),
			truncate(e.Reason, 80),
		})
		if f.options.Verbose && e.Valid {
			for _, m := range e.Record.Missing {
				t.AppendRow(table.Row{"", text.FgYellow.Sprint("missing"), m.Severity, "", m.Code})
			}
			for _, u := range e.Record.Unexpected {
				t.AppendRow(table.Row{"", text.FgYellow.Sprint("unexpected"), u.Severity, "", truncate(u.Code+": "+u.Detail, 80)})
			}
		}
	}
	t.Render()

	return f.formatSummary(s)
}

// FormatValidation prints one row per definition and the valid/invalid counts.
func (f *TableFormatter) FormatValidation(entries []report.Entry, v report.Validation) error {
	if len(entries) == 0 {
		fmt.Fprint(f.options.Writer, f.formatEmptyMessage("📋", "No test definitions found"))
		return nil
	}

	sorted := make([]report.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	t := f.createTable()
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("DEFINITION"),
		text.FgHiCyan.Sprint("RESULT"),
		text.FgHiCyan.Sprint("DETAILS"),
	})
	for _, e := range sorted {
		label := text.FgGreen.Sprint("✅ VALID")
		if !e.Valid {
			label = text.FgRed.Sprint("⚠️  INVALID")
		}
		t.AppendRow(table.Row{e.Name, label, truncate(e.Reason, 80)})
	}
	t.Render()

	fmt.Fprintf(f.options.Writer, "%d definition(s): %s valid, %s invalid\n",
		v.Total, text.FgGreen.Sprint(v.Valid), colorFailed(v.Invalid))
	return nil
}

func (f *TableFormatter) formatSummary(s report.Summary) error {
	t := f.createTable()
	t.SetTitle("Run %s", s.RunID)
	t.AppendRow(table.Row{"Tests", fmt.Sprintf("%d (%d valid, %d invalid)", s.Total, s.Valid, s.Invalid)})
	t.AppendRow(table.Row{"Passed", text.FgGreen.Sprint(s.Passed)})
	t.AppendRow(table.Row{"Failed", colorFailed(s.Failed)})
	t.AppendRow(table.Row{"Pass rate", FormatPercent(s.PassRate())})
	t.AppendRow(table.Row{"Total time", FormatDuration(s.TotalTime)})
	t.AppendRow(table.Row{"Mean time", FormatDuration(s.MeanTime)})
	if s.CheckerVersion != "" {
		t.AppendRow(table.Row{"Validator", s.CheckerVersion})
	}
	t.Render()

	sev := f.createTable()
	sev.AppendHeader(table.Row{"SEVERITY", "REPORTED", "MATCHED", "ACCURACY", "RECALL"})
	for _, name := range testcase.Severities {
		sev.AppendRow(table.Row{
			name,
			s.RawTotals[name],
			s.Matched[name],
			FormatPercent(s.Accuracy[name]),
			FormatPercent(s.Recall[name]),
		})
	}
	sev.Render()
	return nil
}

// FormatHistory prints the recorded runs, newest last.
func (f *TableFormatter) FormatHistory(header []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Fprint(f.options.Writer, f.formatEmptyMessage("📋", "No runs recorded yet"))
		return nil
	}

	t := f.createTable()
	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

// FormatStatus prints the validator installation state.
func (f *TableFormatter) FormatStatus(st checker.Status) error {
	t := f.createTable()
	t.AppendRow(table.Row{"Path", st.Path})
	installed := text.FgRed.Sprint("no")
	if st.Installed {
		installed = text.FgGreen.Sprint("yes")
	}
	t.AppendRow(table.Row{"Installed", installed})
	t.AppendRow(table.Row{"Installed version", orDash(st.InstalledVersion)})
	t.AppendRow(table.Row{"Latest version", orDash(st.LatestVersion)})
	update := "no"
	if st.UpdateAvailable {
		update = text.FgYellow.Sprint("yes")
	}
	t.AppendRow(table.Row{"Update available", update})
	if st.Error != "" {
		t.AppendRow(table.Row{"Error", text.FgRed.Sprint(st.Error)})
	}
	t.Render()
	return nil
}

// FormatData formats generic data as key-value pairs.
func (f *TableFormatter) FormatData(data interface{}) error {
	switch d := data.(type) {
	case map[string]interface{}:
		return f.formatObjectData(d)
	default:
		fmt.Fprintf(f.options.Writer, "%v\n", d)
	}
	return nil
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", text.FgYellow.Sprint(icon), text.FgYellow.Sprint(message))
}

// formatObjectData formats object data as key-value pairs
func (f *TableFormatter) formatObjectData(data map[string]interface{}) error {
	t := f.createTable()
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("KEY"),
		text.FgHiCyan.Sprint("VALUE"),
	})

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		t.AppendRow(table.Row{
			text.FgHiCyan.Sprint(key),
			truncate(fmt.Sprintf("%v", data[key]), 100),
		})
	}

	t.Render()
	return nil
}

func resultLabel(e report.Entry) string {
	switch {
	case !e.Valid:
		return text.FgRed.Sprint("⚠️  INVALID")
	case e.Passed:
		return text.FgGreen.Sprint("✅ PASS")
	default:
		return text.FgRed.Sprint("❌ FAIL")
	}
}

func colorFailed(n int) string {
	if n == 0 {
		return text.FgGreen.Sprint(n)
	}
	return text.FgRed.Sprint(n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
