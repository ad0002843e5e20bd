// Package execution runs the validator once per test case on a bounded worker pool.
//
// RunAll starts the batch and returns an iterator that yields one Outcome
// per input case in completion order. Each checker process runs in its own
// process group under a per-test timeout. Whenever the validator does not
// leave a report behind (timeout, spawn failure, cancelled run or a silent
// exit) the engine writes a report with a single fatal issue in its place,
// so every finished case has a report to reconcile.
package execution
