// Package report rolls per-test results up into a run summary and persists it.
//
// Aggregate computes the counts, timings and per-severity accuracy of a
// run. The summary is appended as one row to a CSV history file, and can
// also be written as a JSON report together with the per-test entries, or
// as a Prometheus textfile for node_exporter style collectors.
package report
