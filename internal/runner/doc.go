// Package runner wires the stages of a conformance run together.
//
// A Runner is built once at the entry point from explicit dependencies: the
// loaded configuration, the schema validator, the validator lifecycle
// manager and a Reporter. Run discovers and prepares definitions, makes
// sure a usable validator is installed, streams the test cases through the
// execution engine, reconciles each outcome as it completes and finally
// aggregates and persists the run summary.
package runner
