package runner

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"

	"fut/internal/checker"
	"fut/internal/formatting"
	"fut/internal/report"
)

// Reporter receives progress while a run is in flight.
type Reporter interface {
	ReportStart(total, workers int, h checker.Handle)
	ReportResult(e report.Entry, done, total int)
	ReportSummary(entries []report.Entry, s report.Summary)
}

// consoleReporter prints one line per finished test and the summary tables.
type consoleReporter struct {
	mu        sync.Mutex
	out       io.Writer
	formatter formatting.Formatter
}

// NewConsoleReporter creates a reporter writing progress to out and the summary with formatter.
func NewConsoleReporter(out io.Writer, formatter formatting.Formatter) Reporter {
	return &consoleReporter{out: out, formatter: formatter}
}

func (r *consoleReporter) ReportStart(total, workers int, h checker.Handle) {
	fmt.Fprintf(r.out, "🧪 Running %d test(s) with %d worker(s)", total, workers)
	if h.Version() != "" {
		fmt.Fprintf(r.out, " using validator %s", h.Version())
	}
	fmt.Fprintln(r.out)
}

func (r *consoleReporter) ReportResult(e report.Entry, done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	icon := text.FgGreen.Sprint("✅")
	switch {
	case !e.Valid:
		icon = text.FgYellow.Sprint("⚠️ ")
	case !e.Passed:
		icon = text.FgRed.Sprint("❌")
	}
	fmt.Fprintf(r.out, "[%d/%d %3.0f%%] %s %s (%s)", done, total, progress(done, total)*100, icon, e.Name, formatting.FormatDuration(e.Duration))
	if e.Reason != "" {
		fmt.Fprintf(r.out, " - %s", e.Reason)
	}
	fmt.Fprintln(r.out)
}

func (r *consoleReporter) ReportSummary(entries []report.Entry, s report.Summary) {
	fmt.Fprintln(r.out)
	if err := r.formatter.FormatRun(entries, s); err != nil {
		fmt.Fprintf(r.out, "failed to render summary: %v\n", err)
	}
}

// NopReporter discards progress, for callers that only want the Result.
type NopReporter struct{}

func (NopReporter) ReportStart(int, int, checker.Handle) {}

func (NopReporter) ReportResult(report.Entry, int, int) {}

func (NopReporter) ReportSummary([]report.Entry, report.Summary) {}

func progress(done, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(done) / float64(total)
}
