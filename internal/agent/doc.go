// Package agent exposes the runner as an MCP server over stdio.
//
// Tools:
//   - run_tests: execute definitions and return the per-test results and summary
//   - validate_definitions: check definitions without running the validator
//   - get_results: return the result of the last run_tests call
//   - get_history: return recent rows of the run history
//   - validator_status: report the installed and latest validator versions
//
// Logging must be silenced (logging.InitSilent) before serving, since stdout
// carries the protocol.
package agent
