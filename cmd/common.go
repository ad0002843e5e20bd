package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"fut/internal/checker"
	"fut/internal/config"
	"fut/internal/formatting"
	"fut/internal/runner"
	"fut/internal/schema"
)

// loadConfig reads config.yaml from the --config-path directory.
func loadConfig() (config.Config, error) {
	return config.LoadConfig(configPath)
}

func newManager(cfg config.Config, observer checker.DownloadObserver) *checker.Manager {
	return checker.NewManager(checker.Options{
		JarPath:        cfg.JarPath(configPath),
		ReleaseURL:     cfg.Validator.ReleaseURL,
		DownloadURL:    cfg.Validator.DownloadURL,
		AutoUpdate:     cfg.Validator.AutoUpdate,
		RequestTimeout: cfg.RequestsTimeout,
		Observer:       observer,
	})
}

// newRunner wires a Runner for cfg. A schema that cannot be loaded stops the command.
func newRunner(cfg config.Config, c runner.Checker, reporter runner.Reporter) (*runner.Runner, error) {
	v, err := schema.New(cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("%w: definition schema: %w", runner.ErrConfigurationFatal, err)
	}
	return runner.New(runner.Deps{
		Config:    cfg,
		Validator: v,
		Checker:   c,
		Reporter:  reporter,
	}), nil
}

// newFormatter builds the formatter selected by the --output flag of cmd.
func newFormatter(cmd *cobra.Command, format string, verbose bool) (formatting.Formatter, formatting.OutputFormat, error) {
	f, err := formatting.ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	return formatting.New(formatting.Options{
		Format:  f,
		Writer:  cmd.OutOrStdout(),
		Verbose: verbose,
	}), f, nil
}

// spinnerObserver shows a spinner on stderr while the validator downloads.
type spinnerObserver struct {
	s *spinner.Spinner
}

func newSpinnerObserver(w io.Writer) *spinnerObserver {
	if w == nil {
		w = os.Stderr
	}
	return &spinnerObserver{s: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))}
}

func (o *spinnerObserver) DownloadStarted(url string) {
	o.s.Suffix = " Downloading validator..."
	o.s.FinalMSG = ""
	o.s.Start()
}

func (o *spinnerObserver) DownloadFinished(err error) {
	if err != nil {
		o.s.FinalMSG = text.FgRed.Sprint("❌ Validator download failed") + "\n"
	} else {
		o.s.FinalMSG = text.FgGreen.Sprint("✅ Validator downloaded") + "\n"
	}
	o.s.Stop()
}
