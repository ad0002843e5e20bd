package config

import (
	"time"

	"fut/internal/checker"
)

const (
	DefaultMaxThreads  = 4
	DefaultTimeout     = 5 * time.Minute
	DefaultSpecVersion = "4.0.1"
	jarFileName        = "validator_cli.jar"
)

// GetDefaultConfig returns the default configuration for fut.
func GetDefaultConfig() Config {
	return Config{
		MaxThreads:      DefaultMaxThreads,
		Timeout:         DefaultTimeout,
		RequestsTimeout: DefaultTimeout,
		JavaPath:        "java",
		Validator: ValidatorConfig{
			ReleaseURL:  checker.DefaultReleaseURL,
			DownloadURL: checker.DefaultDownloadURL,
			AutoUpdate:  true,
			SpecVersion: DefaultSpecVersion,
		},
		Output: OutputConfig{
			Dir:         "fut-results",
			HistoryPath: "fut-history.csv",
			ReportPath:  "fut-report.json",
		},
	}
}
