package config

import "time"

// Config is the top-level configuration structure for fut.
type Config struct {
	MaxThreads      int             `yaml:"max_threads"`
	Timeout         time.Duration   `yaml:"timeout"`
	RequestsTimeout time.Duration   `yaml:"requests_timeout"`
	JavaPath        string          `yaml:"java_path"`
	SchemaPath      string          `yaml:"schema_path"`
	Validator       ValidatorConfig `yaml:"validator"`
	Output          OutputConfig    `yaml:"output"`
}

// ValidatorConfig locates and updates the validator jar.
type ValidatorConfig struct {
	Path        string `yaml:"path"` // Empty means validator_cli.jar in the config directory
	ReleaseURL  string `yaml:"release_url"`
	DownloadURL string `yaml:"download_url"`
	AutoUpdate  bool   `yaml:"auto_update"`
	SpecVersion string `yaml:"spec_version"` // FHIR version passed as -version
}

// OutputConfig controls where run artifacts go.
type OutputConfig struct {
	Dir               string `yaml:"dir"`
	KeepCheckerOutput bool   `yaml:"keep_checker_output"` // When false validator reports go to a temporary directory
	HistoryPath       string `yaml:"history_path"`
	ReportPath        string `yaml:"report_path"`
	MetricsPath       string `yaml:"metrics_path"`
}
