package config

import (
	"fmt"
	"strings"
)

// ValidationError is a single rejected setting, keyed by its config.yaml path.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s %s (got %v)", ve.Field, ve.Message, ve.Value)
}

// ValidationErrors collects every rejected setting of one Config.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (ve *ValidationErrors) check(ok bool, field, message string, value any) {
	if !ok {
		*ve = append(*ve, ValidationError{Field: field, Value: value, Message: message})
	}
}

// Validate checks settings that would make a run impossible. It returns
// ValidationErrors or nil.
func Validate(c Config) error {
	var errs ValidationErrors

	errs.check(c.MaxThreads >= 1, "max_threads", "must be at least 1", c.MaxThreads)
	errs.check(c.Timeout > 0, "timeout", "must be positive", c.Timeout)
	errs.check(c.RequestsTimeout > 0, "requests_timeout", "must be positive", c.RequestsTimeout)
	errs.check(strings.TrimSpace(c.JavaPath) != "", "java_path", "is required", c.JavaPath)
	errs.check(strings.TrimSpace(c.Validator.SpecVersion) != "", "validator.spec_version", "is required", c.Validator.SpecVersion)
	errs.check(!c.Output.KeepCheckerOutput || strings.TrimSpace(c.Output.Dir) != "",
		"output.dir", "is required when keep_checker_output is set", c.Output.Dir)

	if len(errs) > 0 {
		return errs
	}
	return nil
}
