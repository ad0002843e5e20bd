package runner

import "errors"

// ErrConfigurationFatal marks failures that stop the whole run before any test executes.
var ErrConfigurationFatal = errors.New("configuration error")
