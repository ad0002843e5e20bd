// Package logging provides structured logging for fut, built on log/slog.
//
// Every entry carries a subsystem attribute so runs can be filtered by
// component:
//
//   - **Runner**: orchestration of a batch
//   - **Prepare**: definition loading, suite expansion and instance lookup
//   - **Checker**: installation and update of the external validator
//   - **Execution**: the worker pool and checker processes
//   - **Reconcile**: report parsing and matching
//   - **Report**: history, JSON report and metrics files
//   - **Config**: settings loading
//   - **Watch**: definition change detection
//   - **Agent**: the MCP tool server
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Runner", "Prepared %d test cases", n)
//	logging.Error("Checker", err, "Failed to download %s", url)
//
// InitForJSON switches to line-delimited JSON and InitSilent discards all
// output, which the MCP stdio server needs because stdout carries the
// protocol. ForSubsystem exposes a *slog.Logger for libraries that accept a
// leveled logger, such as go-retryablehttp.
package logging
