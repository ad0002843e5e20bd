package formatting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PrettyJSON formats any value as indented JSON for human-readable display.
// It handles marshaling errors gracefully by falling back to fmt.Sprintf.
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// FormatDuration rounds to milliseconds.
func FormatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

// FormatPercent renders a ratio such as 0.25 as "25.0%".
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// truncate collapses whitespace to single spaces and cuts s to n runes, ending in "...".
// Validator messages often span several lines.
func truncate(s string, n int) string {
	n = max(n, 4)
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func viaJSON(v interface{}) interface{} {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func historyRecords(header []string, rows [][]string) []map[string]string {
	records := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		rec := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(r) {
				rec[h] = r[i]
			}
		}
		records = append(records, rec)
	}
	return records
}
