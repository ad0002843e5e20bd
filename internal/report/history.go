package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fut/internal/testcase"
	"fut/pkg/logging"
)

// History is the append-only CSV table with one row per run.
type History struct {
	Path string
}

// Header returns the column names of the history table.
func Header() []string {
	h := []string{"run_id", "timestamp", "checker_version", "total", "valid", "invalid", "passed", "failed", "total_time_s", "mean_time_s"}
	for _, sev := range testcase.Severities {
		h = append(h, sev+"_total", sev+"_matched", sev+"_accuracy", sev+"_recall")
	}
	return h
}

func row(s Summary) []string {
	r := []string{
		s.RunID,
		s.Timestamp.Format(time.RFC3339),
		s.CheckerVersion,
		strconv.Itoa(s.Total),
		strconv.Itoa(s.Valid),
		strconv.Itoa(s.Invalid),
		strconv.Itoa(s.Passed),
		strconv.Itoa(s.Failed),
		formatSeconds(s.TotalTime),
		formatSeconds(s.MeanTime),
	}
	for _, sev := range testcase.Severities {
		r = append(r,
			strconv.Itoa(s.RawTotals[sev]),
			strconv.Itoa(s.Matched[sev]),
			strconv.FormatFloat(s.Accuracy[sev], 'f', 4, 64),
			strconv.FormatFloat(s.Recall[sev], 'f', 4, 64),
		)
	}
	return r
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// Append adds the summary as a new row. The header is written when the file is created.
func (h History) Append(s Summary) error {
	if dir := filepath.Dir(h.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	f, err := os.OpenFile(h.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history %s: %w", h.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header()); err != nil {
			return err
		}
	}
	if err := w.Write(row(s)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append to history %s: %w", h.Path, err)
	}

	logging.Debug("Report", "Appended run %s to %s", s.RunID, h.Path)
	return nil
}

// Read returns the header and rows of the history, newest last.
// A missing file is an empty history.
func (h History) Read() ([]string, [][]string, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Header(), nil, nil
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Header(), nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read history header: %w", err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read history: %w", err)
	}
	return header, rows, nil
}
