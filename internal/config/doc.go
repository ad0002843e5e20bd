// Package config loads and persists fut settings.
//
// Settings live in config.yaml inside the configuration directory
// (~/.config/fut by default). Missing files and missing keys fall back to
// GetDefaultConfig. Keys can be read and written by dotted path, which is
// what the "fut config get/set" commands use:
//
//	max_threads: 4
//	timeout: 5m
//	requests_timeout: 5m
//	java_path: java
//	validator:
//	  auto_update: true
//	  spec_version: 4.0.1
//	output:
//	  dir: fut-results
//	  keep_checker_output: false
//	  history_path: fut-history.csv
//	  report_path: fut-report.json
package config
